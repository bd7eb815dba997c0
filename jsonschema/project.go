package jsonschema

import (
	"fmt"
	"math"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
)

// Mode controls how object types treat properties they do not declare.
type Mode int

const (
	// Open tolerates undeclared properties.
	Open Mode = iota
	// Closed rejects undeclared properties.
	Closed
)

func (m Mode) String() string {
	if m == Closed {
		return "closed"
	}
	return "open"
}

// DefinitionRef returns the pointer used for a named type.
func DefinitionRef(name string) string { return "#/definitions/" + name }

// Project converts t into a schema node. References stay references into
// the definitions section; intersections are narrowed to a single object so
// that closed mode does not reject the properties of sibling members.
func Project(t apicontract.Type, table *apicontract.TypeTable, mode Mode) (*Schema, error) {
	p := projector{table: table, mode: mode}
	return p.project(t)
}

type projector struct {
	table *apicontract.TypeTable
	mode  Mode
}

var (
	int32Min = float64(math.MinInt32)
	int32Max = float64(math.MaxInt32)
)

func (p projector) project(t apicontract.Type) (*Schema, error) {
	switch t := t.(type) {
	case *apicontract.NullType:
		return &Schema{Type: "null"}, nil
	case *apicontract.BooleanType:
		return &Schema{Type: "boolean"}, nil
	case *apicontract.BooleanLiteralType:
		return &Schema{Type: "boolean", Enum: []any{t.Value}}, nil
	case *apicontract.StringType:
		return &Schema{Type: "string"}, nil
	case *apicontract.StringLiteralType:
		return &Schema{Type: "string", Enum: []any{t.Value}}, nil
	case *apicontract.FloatType, *apicontract.DoubleType:
		return &Schema{Type: "number"}, nil
	case *apicontract.FloatLiteralType:
		return &Schema{Type: "number", Enum: []any{t.Value}}, nil
	case *apicontract.Int32Type:
		return &Schema{Type: "integer", Minimum: &int32Min, Maximum: &int32Max}, nil
	case *apicontract.Int64Type:
		return &Schema{Type: "integer"}, nil
	case *apicontract.IntLiteralType:
		return &Schema{Type: "integer", Enum: []any{t.Value}}, nil
	case *apicontract.DateType:
		return &Schema{Type: "string", Format: "date"}, nil
	case *apicontract.DateTimeType:
		return &Schema{Type: "string", Format: "date-time"}, nil
	case *apicontract.ObjectType:
		return p.object(t)
	case *apicontract.ArrayType:
		items, err := p.project(t.Element)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case *apicontract.UnionType:
		return p.union(t)
	case *apicontract.IntersectionType:
		roots, err := apicontract.PossibleRootTypes(t, p.table)
		if err != nil {
			return nil, err
		}
		if len(roots) == 1 {
			return p.project(roots[0])
		}
		return p.anyOf(roots)
	case *apicontract.ReferenceType:
		if !p.table.Exists(t.Name) {
			return nil, apicontract.NewShapeError("json schema", t, apicontract.ErrUnknownReference)
		}
		return &Schema{Ref: DefinitionRef(t.Name)}, nil
	default:
		panic(fmt.Sprintf("jsonschema: unhandled type %T", t))
	}
}

func (p projector) object(t *apicontract.ObjectType) (*Schema, error) {
	s := &Schema{Type: "object", Properties: ordered.New[*Schema]()}
	for _, prop := range t.Properties {
		ps, err := p.project(prop.Type)
		if err != nil {
			return nil, err
		}
		if prop.Description != "" && ps.Ref == "" {
			ps.Description = prop.Description
		}
		s.Properties.Set(prop.Name, ps)
		if !prop.Optional {
			s.Required = append(s.Required, prop.Name)
		}
	}
	if p.mode == Closed {
		closed := false
		s.AdditionalProperties = &closed
	}
	return s, nil
}

func (p projector) union(t *apicontract.UnionType) (*Schema, error) {
	if len(t.Types) == 0 {
		return nil, apicontract.NewShapeError("json schema", t, apicontract.ErrEmptyUnion)
	}
	rest, nullable := apicontract.WithoutNull(t.Types)
	if values, kind, ok := apicontract.LiteralValues(rest); ok {
		s := &Schema{Type: literalJSONType(kind), Enum: values}
		if nullable {
			s.Type = ""
			s.Enum = append(s.Enum, nil)
		}
		return s, nil
	}
	return p.anyOf(t.Types)
}

func (p projector) anyOf(types []apicontract.Type) (*Schema, error) {
	s := &Schema{}
	for _, m := range types {
		ms, err := p.project(m)
		if err != nil {
			return nil, err
		}
		s.AnyOf = append(s.AnyOf, ms)
	}
	return s, nil
}

func literalJSONType(k apicontract.Kind) string {
	switch k {
	case apicontract.KindBooleanLiteral:
		return "boolean"
	case apicontract.KindStringLiteral:
		return "string"
	case apicontract.KindFloatLiteral:
		return "number"
	case apicontract.KindIntLiteral:
		return "integer"
	}
	return ""
}

// Document builds a self-contained schema whose root is t and whose
// definitions hold every named type of table.
func Document(t apicontract.Type, table *apicontract.TypeTable, mode Mode) (*Schema, error) {
	root, err := Project(t, table, mode)
	if err != nil {
		return nil, err
	}
	defs, err := definitions(table, mode)
	if err != nil {
		return nil, err
	}
	root.SchemaURI = Draft7
	if defs.Len() > 0 {
		root.Definitions = defs
	}
	return root, nil
}

func definitions(table *apicontract.TypeTable, mode Mode) (*ordered.Map[*Schema], error) {
	defs := ordered.New[*Schema]()
	for name, def := range table.All() {
		s, err := Project(def.Type, table, mode)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: definition %q: %w", name, err)
		}
		if def.Description != "" && s.Ref == "" {
			s.Description = def.Description
		}
		defs.Set(name, s)
	}
	return defs, nil
}

// Generate renders every named type of the contract as draft-07 definitions
// in open mode.
func Generate(c *apicontract.Contract) (*Schema, error) {
	table, err := c.TypeTable()
	if err != nil {
		return nil, err
	}
	defs, err := definitions(table, Open)
	if err != nil {
		return nil, err
	}
	return &Schema{SchemaURI: Draft7, Description: c.Description, Definitions: defs}, nil
}
