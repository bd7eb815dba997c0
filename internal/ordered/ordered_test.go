package ordered_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/apicontract/internal/ordered"
)

func TestMap_InsertionOrder(t *testing.T) {
	m := ordered.New[int]()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4)

	got := strings.Join(m.Keys(), ",")
	if got != "zeta,alpha,mid" {
		t.Fatalf("unexpected key order: %s", got)
	}
	if v, ok := m.Get("zeta"); !ok || v != 4 {
		t.Fatalf("expected replaced value 4, got %v %v", v, ok)
	}
	if m.Len() != 3 {
		t.Fatalf("expected len 3, got %d", m.Len())
	}
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *ordered.Map[string]
	if m.Len() != 0 || m.Has("x") {
		t.Fatalf("nil map must read as empty")
	}
	for range m.All() {
		t.Fatalf("nil map must not yield")
	}
}

func TestMap_MarshalJSON_Order(t *testing.T) {
	m := ordered.New[any]()
	m.Set("b", 1)
	m.Set("a", []any{"x", nil})
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"b":1,"a":["x",null]}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestMap_MarshalYAML_Order(t *testing.T) {
	m := ordered.New[string]()
	m.Set("second", "2")
	m.Set("first", "1")
	b, err := yaml.Marshal(map[string]any{"root": m})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	if strings.Index(out, "second") > strings.Index(out, "first") {
		t.Fatalf("yaml lost insertion order:\n%s", out)
	}
}
