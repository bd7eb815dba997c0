package strval

import "strings"

// Shape tells which form a Value carries.
type Shape int

const (
	ShapeText Shape = iota
	ShapeList
	ShapeFields
)

// Value is a textual input as it arrives in a path segment, header or query
// string: a single text, a list of texts (repeated or comma-split query keys),
// or named fields (deep-object query keys such as "filter[name]").
type Value struct {
	shape  Shape
	text   string
	list   []string
	fields []Field
}

// Field is one named member of a fields Value.
type Field struct {
	Name  string
	Value Value
}

func Text(s string) Value { return Value{shape: ShapeText, text: s} }

func List(items ...string) Value { return Value{shape: ShapeList, list: items} }

func Fields(fs ...Field) Value { return Value{shape: ShapeFields, fields: fs} }

func (v Value) Shape() Shape { return v.shape }

// Texts returns the list items, or the single text as a one-element list.
func (v Value) Texts() []string {
	switch v.shape {
	case ShapeText:
		return []string{v.text}
	case ShapeList:
		return v.list
	}
	return nil
}

// FieldList returns the fields in input order.
func (v Value) FieldList() []Field { return v.fields }

// Field returns the first field named name.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (v Value) String() string {
	switch v.shape {
	case ShapeList:
		return "[" + strings.Join(v.list, ",") + "]"
	case ShapeFields:
		parts := make([]string, len(v.fields))
		for i, f := range v.fields {
			parts[i] = f.Name + "=" + f.Value.String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return v.text
}
