package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reoring/apicontract"
)

// Validator checks decoded JSON values against a compiled contract type.
// It is immutable and safe for concurrent use.
type Validator struct {
	schema *jschema.Schema
	doc    *Schema
}

// Compile projects t (with every named type of table as a definition) and
// compiles the result.
func Compile(t apicontract.Type, table *apicontract.TypeTable, mode Mode) (*Validator, error) {
	doc, err := Document(t, table, mode)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode: %w", err)
	}
	const url = "mem://contract/body.json"
	c := jschema.NewCompiler()
	c.Draft = jschema.Draft7
	c.AssertFormat = true
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("jsonschema: add resource: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile: %w", err)
	}
	return &Validator{schema: s, doc: doc}, nil
}

// Schema returns the projected document the validator was compiled from.
func (v *Validator) Schema() *Schema { return v.doc }

// Validate returns one line per failed leaf assertion, formatted as
// "#<instance pointer> <message>". An empty result means the value conforms.
func (v *Validator) Validate(value any) []string {
	err := v.schema.Validate(value)
	if err == nil {
		return nil
	}
	var ve *jschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{"# " + err.Error()}
	}
	var lines []string
	seen := map[string]bool{}
	collectLeaves(ve, func(e *jschema.ValidationError) {
		line := "#" + e.InstanceLocation + " " + e.Message
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	})
	sort.SliceStable(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}

// ValidateJSON decodes data and validates it. Malformed JSON is reported as a
// single disparity line.
func (v *Validator) ValidateJSON(data []byte) []string {
	value, err := DecodeJSON(data)
	if err != nil {
		return []string{"# " + err.Error()}
	}
	return v.Validate(value)
}

// DecodeJSON decodes a JSON document into the generic values the validator
// understands (map[string]any, []any, float64, string, bool, nil).
func DecodeJSON(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return value, nil
}

func collectLeaves(e *jschema.ValidationError, emit func(*jschema.ValidationError)) {
	if len(e.Causes) == 0 {
		emit(e)
		return
	}
	for _, c := range e.Causes {
		collectLeaves(c, emit)
	}
}
