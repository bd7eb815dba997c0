package openapi2

import (
	"fmt"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
)

// DefinitionRef returns the pointer used for a named type.
func DefinitionRef(name string) string { return "#/definitions/" + name }

func (g generator) schema(t apicontract.Type, nullable bool) (*Schema, error) {
	switch t := t.(type) {
	case *apicontract.NullType:
		return nil, unsupported("schema", t, "null must be part of a union")
	case *apicontract.BooleanType:
		return &Schema{Type: "boolean", XNullable: nullable}, nil
	case *apicontract.BooleanLiteralType:
		return &Schema{Type: "boolean", Enum: enum([]any{t.Value}, nullable), XNullable: nullable}, nil
	case *apicontract.StringType:
		return &Schema{Type: "string", XNullable: nullable}, nil
	case *apicontract.StringLiteralType:
		return &Schema{Type: "string", Enum: enum([]any{t.Value}, nullable), XNullable: nullable}, nil
	case *apicontract.FloatType:
		return &Schema{Type: "number", Format: "float", XNullable: nullable}, nil
	case *apicontract.DoubleType:
		return &Schema{Type: "number", Format: "double", XNullable: nullable}, nil
	case *apicontract.FloatLiteralType:
		return &Schema{Type: "number", Format: "float", Enum: enum([]any{t.Value}, nullable), XNullable: nullable}, nil
	case *apicontract.Int32Type:
		return &Schema{Type: "integer", Format: "int32", XNullable: nullable}, nil
	case *apicontract.Int64Type:
		return &Schema{Type: "integer", Format: "int64", XNullable: nullable}, nil
	case *apicontract.IntLiteralType:
		return &Schema{Type: "integer", Format: "int32", Enum: enum([]any{t.Value}, nullable), XNullable: nullable}, nil
	case *apicontract.DateType:
		return &Schema{Type: "string", Format: "date", XNullable: nullable}, nil
	case *apicontract.DateTimeType:
		return &Schema{Type: "string", Format: "date-time", XNullable: nullable}, nil
	case *apicontract.ObjectType:
		return g.object(t, nullable)
	case *apicontract.ArrayType:
		items, err := g.schema(t.Element, false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items, XNullable: nullable}, nil
	case *apicontract.UnionType:
		return g.union(t)
	case *apicontract.IntersectionType:
		if len(t.Types) == 0 {
			return nil, apicontract.NewShapeError("openapi2 schema", t, apicontract.ErrEmptyIntersection)
		}
		rest, _ := apicontract.WithoutNull(t.Types)
		s := &Schema{}
		for _, m := range rest {
			ms, err := g.schema(m, false)
			if err != nil {
				return nil, err
			}
			s.AllOf = append(s.AllOf, ms)
		}
		return s, nil
	case *apicontract.ReferenceType:
		if !g.table.Exists(t.Name) {
			return nil, apicontract.NewShapeError("openapi2 schema", t, apicontract.ErrUnknownReference)
		}
		ref := &Schema{Ref: DefinitionRef(t.Name)}
		if nullable {
			// siblings of $ref are ignored by Swagger 2.0 tooling
			return &Schema{XNullable: true, AllOf: []*Schema{ref}}, nil
		}
		return ref, nil
	default:
		panic(fmt.Sprintf("openapi2: unhandled type %T", t))
	}
}

func (g generator) object(t *apicontract.ObjectType, nullable bool) (*Schema, error) {
	s := &Schema{Type: "object", XNullable: nullable}
	if len(t.Properties) > 0 {
		s.Properties = ordered.New[*Schema]()
	}
	for _, p := range t.Properties {
		ps, err := g.schema(p.Type, false)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		if ps.Ref == "" && p.Description != "" {
			ps.Description = p.Description
		}
		s.Properties.Set(p.Name, ps)
		if !p.Optional {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s, nil
}

func (g generator) union(t *apicontract.UnionType) (*Schema, error) {
	if len(t.Types) == 0 {
		return nil, apicontract.NewShapeError("openapi2 schema", t, apicontract.ErrEmptyUnion)
	}
	rest, nullable := apicontract.WithoutNull(t.Types)
	switch len(rest) {
	case 0:
		return nil, unsupported("schema", t, "null must be part of a union")
	case 1:
		return g.schema(rest[0], nullable)
	}
	values, kind, ok := apicontract.LiteralValues(rest)
	if !ok {
		return nil, unsupported("schema", t, "unions are not supported")
	}
	s := literalSchema(kind, values)
	s.Enum = enum(s.Enum, nullable)
	s.XNullable = nullable
	return s, nil
}

func literalSchema(kind apicontract.Kind, values []any) *Schema {
	switch kind {
	case apicontract.KindBooleanLiteral:
		return &Schema{Type: "boolean", Enum: values}
	case apicontract.KindStringLiteral:
		return &Schema{Type: "string", Enum: values}
	case apicontract.KindFloatLiteral:
		return &Schema{Type: "number", Format: "float", Enum: values}
	case apicontract.KindIntLiteral:
		return &Schema{Type: "integer", Format: "int32", Enum: values}
	}
	return &Schema{Enum: values}
}

func enum(values []any, nullable bool) []any {
	if nullable {
		return append(values, nil)
	}
	return values
}
