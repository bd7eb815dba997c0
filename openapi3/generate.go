// Package openapi3 renders a contract as an OpenAPI 3.0.2 document.
package openapi3

import (
	"fmt"
	"strconv"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
)

// SecuritySchemeName names the scheme generated for the contract security header.
const SecuritySchemeName = "SecurityHeader"

const jsonMediaType = "application/json"

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
		OpenAPI: "3.0.2",
		Info:    Info{Title: c.Name, Description: c.Description, Version: version},
		Paths:   ordered.New[*PathItem](),
	}

	for _, e := range c.Endpoints {
		op, err := g.operation(e)
		if err != nil {
			return nil, fmt.Errorf("openapi3: endpoint %s: %w", e.Name, err)
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
			return nil, fmt.Errorf("openapi3: endpoint %s: unsupported method %q", e.Name, e.Method)
		}
	}

	if table.Len() > 0 || c.Security != nil {
		doc.Components = &Components{}
	}
	if table.Len() > 0 {
		doc.Components.Schemas = ordered.New[*Schema]()
		for name, def := range table.All() {
			s, err := g.schema(def.Type, false)
			if err != nil {
				return nil, fmt.Errorf("openapi3: schema %s: %w", name, err)
			}
			if s.Ref == "" && def.Description != "" {
				s.Description = def.Description
			}
			doc.Components.Schemas.Set(name, s)
		}
	}
	if sec := c.Security; sec != nil {
		doc.Components.SecuritySchemes = ordered.New[*SecurityScheme]()
		doc.Components.SecuritySchemes.Set(SecuritySchemeName, &SecurityScheme{
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
		if r.Body != nil {
			s, err := g.schema(r.Body.Type, false)
			if err != nil {
				return nil, fmt.Errorf("request body: %w", err)
			}
			op.RequestBody = &RequestBody{Content: content(s), Required: true}
		}
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

func content(s *Schema) *ordered.Map[*MediaType] {
	m := ordered.New[*MediaType]()
	m.Set(jsonMediaType, &MediaType{Schema: s})
	return m
}

func (g generator) parameters(r *apicontract.Request) ([]*Parameter, error) {
	var out []*Parameter
	for _, p := range r.PathParams {
		s, err := g.schema(p.Type, false)
		if err != nil {
			return nil, fmt.Errorf("path param %s: %w", p.Name, err)
		}
		out = append(out, &Parameter{Name: p.Name, In: "path", Description: p.Description, Required: true, Schema: s, Examples: examples(p.Examples)})
	}
	for _, q := range r.QueryParams {
		s, err := g.schema(q.Type, false)
		if err != nil {
			return nil, fmt.Errorf("query param %s: %w", q.Name, err)
		}
		param := &Parameter{Name: q.Name, In: "query", Description: q.Description, Required: !q.Optional, Schema: s, Examples: examples(q.Examples)}
		if err := g.queryStyle(param, q.Type); err != nil {
			return nil, fmt.Errorf("query param %s: %w", q.Name, err)
		}
		out = append(out, param)
	}
	for _, h := range r.Headers {
		s, err := g.schema(h.Type, false)
		if err != nil {
			return nil, fmt.Errorf("header %s: %w", h.Name, err)
		}
		out = append(out, &Parameter{Name: h.Name, In: "header", Description: h.Description, Required: !h.Optional, Schema: s, Examples: examples(h.Examples)})
	}
	return out, nil
}

// queryStyle picks the serialization style from the parameter's root types.
// Unions mixing objects and arrays get no style.
func (g generator) queryStyle(p *Parameter, t apicontract.Type) error {
	roots, err := apicontract.PossibleRootTypes(t, g.table)
	if err != nil {
		return err
	}
	roots, _ = apicontract.WithoutNull(roots)
	if len(roots) == 0 {
		return apicontract.NewShapeError("openapi3 query param", t, fmt.Errorf("%w: resolves to no types", apicontract.ErrUnsupported))
	}
	var object, array bool
	for _, r := range roots {
		switch r.Kind() {
		case apicontract.KindObject:
			object = true
		case apicontract.KindArray:
			array = true
		}
	}
	explode := true
	switch {
	case object && !array:
		p.Style = "deepObject"
	case array && !object:
		p.Style = "form"
		explode = g.config.QueryArrayStrategy() == apicontract.QueryArrayAmpersand
	default:
		return nil
	}
	p.Explode = &explode
	return nil
}

func examples(es []apicontract.Example) *ordered.Map[*Example] {
	if len(es) == 0 {
		return nil
	}
	m := ordered.New[*Example]()
	for _, e := range es {
		m.Set(e.Name, &Example{Value: e.Value})
	}
	return m
}

func (g generator) response(description string, headers []apicontract.Header, body *apicontract.Body) (*Response, error) {
	r := &Response{Description: description}
	if len(headers) > 0 {
		r.Headers = ordered.New[*Header]()
		for _, h := range headers {
			s, err := g.schema(h.Type, false)
			if err != nil {
				return nil, fmt.Errorf("header %s: %w", h.Name, err)
			}
			r.Headers.Set(h.Name, &Header{Description: h.Description, Required: !h.Optional, Schema: s})
		}
	}
	if body != nil {
		s, err := g.schema(body.Type, false)
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		r.Content = content(s)
	}
	return r, nil
}
