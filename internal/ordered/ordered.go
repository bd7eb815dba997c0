// Package ordered provides a string-keyed map that remembers insertion order
// and encodes to JSON/YAML in that order. Generated documents and the type
// table use it so that output is deterministic and mirrors declaration order.
package ordered

import (
	"bytes"
	"iter"

	json "github.com/goccy/go-json"
	"github.com/speakeasy-api/openapi/sequencedmap"
	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered map from string keys to V. The zero value is not
// usable; construct with New. A nil *Map behaves as an empty map for reads.
type Map[V any] struct {
	m *sequencedmap.Map[string, V]
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{m: sequencedmap.New[string, V]()}
}

// Set inserts or replaces the value for key. Replacing keeps the original position.
func (m *Map[V]) Set(key string, v V) { m.m.Set(key, v) }

// Get returns the value for key.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	return m.m.Get(key)
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return m.m.Len()
}

// All iterates entries in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for k, v := range m.m.All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// MarshalJSON encodes the map as a JSON object preserving insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping preserving insertion order.
func (m *Map[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		val := &yaml.Node{}
		if err := val.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
