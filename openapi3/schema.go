package openapi3

import (
	"fmt"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
)

// ComponentRef returns the pointer used for a named type.
func ComponentRef(name string) string { return "#/components/schemas/" + name }

func unsupported(t apicontract.Type, msg string) error {
	return apicontract.NewShapeError("openapi3 schema", t, fmt.Errorf("%w: %s", apicontract.ErrUnsupported, msg))
}

func (g generator) schema(t apicontract.Type, nullable bool) (*Schema, error) {
	switch t := t.(type) {
	case *apicontract.NullType:
		return nil, unsupported(t, "null must be part of a union")
	case *apicontract.BooleanType:
		return &Schema{Type: "boolean", Nullable: nullable}, nil
	case *apicontract.BooleanLiteralType:
		return &Schema{Type: "boolean", Enum: enum([]any{t.Value}, nullable), Nullable: nullable}, nil
	case *apicontract.StringType:
		return &Schema{Type: "string", Nullable: nullable}, nil
	case *apicontract.StringLiteralType:
		return &Schema{Type: "string", Enum: enum([]any{t.Value}, nullable), Nullable: nullable}, nil
	case *apicontract.FloatType:
		return &Schema{Type: "number", Format: "float", Nullable: nullable}, nil
	case *apicontract.DoubleType:
		return &Schema{Type: "number", Format: "double", Nullable: nullable}, nil
	case *apicontract.FloatLiteralType:
		return &Schema{Type: "number", Format: "float", Enum: enum([]any{t.Value}, nullable), Nullable: nullable}, nil
	case *apicontract.Int32Type:
		return &Schema{Type: "integer", Format: "int32", Nullable: nullable}, nil
	case *apicontract.Int64Type:
		return &Schema{Type: "integer", Format: "int64", Nullable: nullable}, nil
	case *apicontract.IntLiteralType:
		return &Schema{Type: "integer", Format: "int32", Enum: enum([]any{t.Value}, nullable), Nullable: nullable}, nil
	case *apicontract.DateType:
		return &Schema{Type: "string", Format: "date", Nullable: nullable}, nil
	case *apicontract.DateTimeType:
		return &Schema{Type: "string", Format: "date-time", Nullable: nullable}, nil
	case *apicontract.ObjectType:
		s := &Schema{Type: "object", Nullable: nullable}
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
	case *apicontract.ArrayType:
		items, err := g.schema(t.Element, false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items, Nullable: nullable}, nil
	case *apicontract.UnionType:
		return g.union(t)
	case *apicontract.IntersectionType:
		if len(t.Types) == 0 {
			return nil, apicontract.NewShapeError("openapi3 schema", t, apicontract.ErrEmptyIntersection)
		}
		rest, hasNull := apicontract.WithoutNull(t.Types)
		s := &Schema{Nullable: hasNull}
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
			return nil, apicontract.NewShapeError("openapi3 schema", t, apicontract.ErrUnknownReference)
		}
		// nullable beside $ref is not valid OpenAPI 3.0 but is what consumers of these documents expect
		return &Schema{Ref: ComponentRef(t.Name), Nullable: nullable}, nil
	default:
		panic(fmt.Sprintf("openapi3: unhandled type %T", t))
	}
}

func (g generator) union(t *apicontract.UnionType) (*Schema, error) {
	if len(t.Types) == 0 {
		return nil, apicontract.NewShapeError("openapi3 schema", t, apicontract.ErrEmptyUnion)
	}
	rest, nullable := apicontract.WithoutNull(t.Types)
	switch len(rest) {
	case 0:
		return nil, unsupported(t, "null must be part of a union")
	case 1:
		return g.schema(rest[0], nullable)
	}
	if values, kind, ok := apicontract.LiteralValues(rest); ok {
		s := literalSchema(kind, values)
		s.Enum = enum(s.Enum, nullable)
		s.Nullable = nullable
		return s, nil
	}

	s := &Schema{Nullable: nullable}
	for _, m := range rest {
		ms, err := g.schema(m, false)
		if err != nil {
			return nil, err
		}
		s.OneOf = append(s.OneOf, ms)
	}
	d, err := g.discriminator(t, rest)
	if err != nil {
		return nil, err
	}
	s.Discriminator = d
	return s, nil
}

// discriminator uses the declared discriminator, falling back to inference.
// A mapping is only written when every member is a reference to objects.
func (g generator) discriminator(t *apicontract.UnionType, members []apicontract.Type) (*Discriminator, error) {
	name := t.Discriminator
	if name == "" {
		inferred, err := apicontract.InferDiscriminator(members, g.table)
		if err != nil {
			return nil, err
		}
		name = inferred
	}
	if name == "" {
		return nil, nil
	}

	type target struct {
		ref   string
		roots []apicontract.Type
	}
	targets := make([]target, 0, len(members))
	for _, m := range members {
		ref, ok := m.(*apicontract.ReferenceType)
		if !ok {
			return &Discriminator{PropertyName: name}, nil
		}
		roots, err := apicontract.PossibleRootTypes(ref, g.table)
		if err != nil {
			return nil, err
		}
		for _, r := range roots {
			if r.Kind() != apicontract.KindObject {
				return &Discriminator{PropertyName: name}, nil
			}
		}
		targets = append(targets, target{ref: ref.Name, roots: roots})
	}

	mapping := ordered.New[string]()
	for _, tg := range targets {
		value, err := g.discriminatorValue(name, tg.roots)
		if err != nil {
			return nil, err
		}
		mapping.Set(value, ComponentRef(tg.ref))
	}
	return &Discriminator{PropertyName: name, Mapping: mapping}, nil
}

func (g generator) discriminatorValue(name string, roots []apicontract.Type) (string, error) {
	for _, r := range roots {
		obj := r.(*apicontract.ObjectType)
		for _, p := range obj.Properties {
			if p.Name != name {
				continue
			}
			pt, err := apicontract.Dereference(p.Type, g.table)
			if err != nil {
				return "", err
			}
			lit, ok := pt.(*apicontract.StringLiteralType)
			if !ok {
				return "", unsupported(p.Type, fmt.Sprintf("discriminator %q must be a string literal", name))
			}
			return lit.Value, nil
		}
	}
	return "", unsupported(roots[0], fmt.Sprintf("discriminator %q not found", name))
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
