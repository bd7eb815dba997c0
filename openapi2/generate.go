// Package openapi2 renders a contract as a Swagger 2.0 document.
//
// Swagger 2.0 has no way to express heterogeneous unions or null on its own,
// so those shapes fail with errors wrapping apicontract.ErrUnsupported.
// Nullability is carried by the x-nullable vendor extension.
package openapi2

import (
	"fmt"
	"strconv"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
)

// SecuritySchemeName names the scheme generated for the contract security header.
const SecuritySchemeName = "SecurityHeader"

// Generate renders c.
func Generate(c *apicontract.Contract) (*Document, error) {
	table, err := c.TypeTable()
	if err != nil {
		return nil, err
	}
	g := generator{table: table, config: c.Config}

	version := c.Version
	if version == "" {
		version = "0.0.0"
	}
	doc := &Document{
		Swagger:  "2.0",
		Info:     Info{Title: c.Name, Description: c.Description, Version: version},
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		Paths:    ordered.New[*PathItem](),
	}

	for _, e := range c.Endpoints {
		op, err := g.operation(e)
		if err != nil {
			return nil, fmt.Errorf("openapi2: endpoint %s: %w", e.Name, err)
		}
		path := apicontract.RenderPath(e.Path)
		item, ok := doc.Paths.Get(path)
		if !ok {
			item = &PathItem{}
			doc.Paths.Set(path, item)
		}
		switch e.Method {
		case apicontract.MethodGet:
			item.Get = op
		case apicontract.MethodPut:
			item.Put = op
		case apicontract.MethodPost:
			item.Post = op
		case apicontract.MethodDelete:
			item.Delete = op
		case apicontract.MethodPatch:
			item.Patch = op
		default:
			return nil, fmt.Errorf("openapi2: endpoint %s: unsupported method %q", e.Name, e.Method)
		}
	}

	if table.Len() > 0 {
		doc.Definitions = ordered.New[*Schema]()
		for name, def := range table.All() {
			s, err := g.schema(def.Type, false)
			if err != nil {
				return nil, fmt.Errorf("openapi2: definition %s: %w", name, err)
			}
			if s.Ref == "" && def.Description != "" {
				s.Description = def.Description
			}
			doc.Definitions.Set(name, s)
		}
	}

	if sec := c.Security; sec != nil {
		doc.SecurityDefinitions = ordered.New[*SecurityScheme]()
		doc.SecurityDefinitions.Set(SecuritySchemeName, &SecurityScheme{
			Type:        "apiKey",
			In:          "header",
			Name:        sec.Name,
			Description: sec.Description,
		})
		doc.Security = []map[string][]string{{SecuritySchemeName: {}}}
	}
	return doc, nil
}

type generator struct {
	table  *apicontract.TypeTable
	config apicontract.Config
}

func (g generator) operation(e apicontract.Endpoint) (*Operation, error) {
	op := &Operation{
		Description: e.Description,
		OperationID: e.Name,
		Responses:   ordered.New[*Response](),
	}
	if len(e.Tags) > 0 {
		op.Tags = e.Tags
	}
	if r := e.Request; r != nil {
		params, err := g.parameters(r)
		if err != nil {
			return nil, err
		}
		op.Parameters = params
	}
	for _, resp := range e.Responses {
		ro, err := g.response(resp.DefaultDescription(), resp.Headers, resp.Body)
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", resp.Status, err)
		}
		op.Responses.Set(strconv.Itoa(resp.Status), ro)
	}
	if d := e.DefaultResponse; d != nil {
		ro, err := g.response(d.DefaultDescription(), d.Headers, d.Body)
		if err != nil {
			return nil, fmt.Errorf("default response: %w", err)
		}
		op.Responses.Set("default", ro)
	}
	return op, nil
}

func (g generator) parameters(r *apicontract.Request) ([]*Parameter, error) {
	var out []*Parameter
	for _, p := range r.PathParams {
		param := &Parameter{Name: p.Name, In: "path", Description: p.Description, Required: true}
		if err := g.flatParameter(param, p.Type, ""); err != nil {
			return nil, fmt.Errorf("path param %s: %w", p.Name, err)
		}
		out = append(out, param)
	}
	for _, q := range r.QueryParams {
		param := &Parameter{Name: q.Name, In: "query", Description: q.Description, Required: !q.Optional}
		if err := g.flatParameter(param, q.Type, collectionFormat(g.config.QueryArrayStrategy())); err != nil {
			return nil, fmt.Errorf("query param %s: %w", q.Name, err)
		}
		out = append(out, param)
	}
	for _, h := range r.Headers {
		param := &Parameter{Name: h.Name, In: "header", Description: h.Description, Required: !h.Optional}
		if err := g.flatParameter(param, h.Type, ""); err != nil {
			return nil, fmt.Errorf("header %s: %w", h.Name, err)
		}
		out = append(out, param)
	}
	if r.Body != nil {
		s, err := g.schema(r.Body.Type, false)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		out = append(out, &Parameter{Name: "Body", In: "body", Required: true, Schema: s})
	}
	return out, nil
}

func collectionFormat(s apicontract.QueryArrayStrategy) string {
	if s == apicontract.QueryArrayComma {
		return "csv"
	}
	return "multi"
}

func (g generator) flatParameter(p *Parameter, t apicontract.Type, arrayFormat string) error {
	d, err := apicontract.Dereference(t, g.table)
	if err != nil {
		return err
	}
	if arr, ok := d.(*apicontract.ArrayType); ok {
		items, err := g.items(arr.Element)
		if err != nil {
			return err
		}
		p.Type, p.CollectionFormat, p.Items = "array", arrayFormat, items
		return nil
	}
	basic, err := g.basic(d)
	if err != nil {
		return err
	}
	p.Type, p.Format, p.Enum = basic.Type, basic.Format, basic.Enum
	return nil
}

func (g generator) items(t apicontract.Type) (*Items, error) {
	d, err := apicontract.Dereference(t, g.table)
	if err != nil {
		return nil, err
	}
	if arr, ok := d.(*apicontract.ArrayType); ok {
		inner, err := g.items(arr.Element)
		if err != nil {
			return nil, err
		}
		return &Items{Type: "array", Items: inner}, nil
	}
	return g.basic(d)
}

// basic renders a dereferenced scalar for use as a parameter or header.
func (g generator) basic(t apicontract.Type) (*Items, error) {
	switch t := t.(type) {
	case *apicontract.NullType:
		return nil, unsupported("parameter", t, "null is not supported for parameters")
	case *apicontract.BooleanType:
		return &Items{Type: "boolean"}, nil
	case *apicontract.BooleanLiteralType:
		return &Items{Type: "boolean", Enum: []any{t.Value}}, nil
	case *apicontract.StringType:
		return &Items{Type: "string"}, nil
	case *apicontract.StringLiteralType:
		return &Items{Type: "string", Enum: []any{t.Value}}, nil
	case *apicontract.FloatType:
		return &Items{Type: "number", Format: "float"}, nil
	case *apicontract.DoubleType:
		return &Items{Type: "number", Format: "double"}, nil
	case *apicontract.FloatLiteralType:
		return &Items{Type: "number", Format: "float", Enum: []any{t.Value}}, nil
	case *apicontract.Int32Type:
		return &Items{Type: "integer", Format: "int32"}, nil
	case *apicontract.Int64Type:
		return &Items{Type: "integer", Format: "int64"}, nil
	case *apicontract.IntLiteralType:
		return &Items{Type: "integer", Format: "int32", Enum: []any{t.Value}}, nil
	case *apicontract.DateType:
		return &Items{Type: "string", Format: "date"}, nil
	case *apicontract.DateTimeType:
		return &Items{Type: "string", Format: "date-time"}, nil
	case *apicontract.ObjectType:
		return nil, unsupported("parameter", t, "objects are not supported for parameters")
	case *apicontract.ArrayType:
		return g.items(t)
	case *apicontract.UnionType:
		// a union of same-kind literals is still a flat enum
		if values, kind, ok := apicontract.LiteralValues(t.Types); ok {
			s := literalSchema(kind, values)
			return &Items{Type: s.Type, Format: s.Format, Enum: s.Enum}, nil
		}
		return nil, unsupported("parameter", t, "unions are not supported for parameters")
	case *apicontract.IntersectionType:
		return nil, unsupported("parameter", t, "intersections are not supported for parameters")
	case *apicontract.ReferenceType:
		d, err := apicontract.Dereference(t, g.table)
		if err != nil {
			return nil, err
		}
		return g.basic(d)
	default:
		panic(fmt.Sprintf("openapi2: unhandled type %T", t))
	}
}

func (g generator) response(description string, headers []apicontract.Header, body *apicontract.Body) (*Response, error) {
	r := &Response{Description: description}
	if len(headers) > 0 {
		r.Headers = ordered.New[*Header]()
		for _, h := range headers {
			it, err := g.items(h.Type)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", h.Name, err)
			}
			r.Headers.Set(h.Name, &Header{Description: h.Description, Type: it.Type, Format: it.Format, Enum: it.Enum, Items: it.Items})
		}
	}
	if body != nil {
		s, err := g.schema(body.Type, false)
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		r.Schema = s
	}
	return r, nil
}

func unsupported(op string, t apicontract.Type, msg string) error {
	return apicontract.NewShapeError("openapi2 "+op, t, fmt.Errorf("%w: %s", apicontract.ErrUnsupported, msg))
}
