package apicontract

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// MarshalType encodes t as {"kind": ..., ...}.
func MarshalType(t Type) ([]byte, error) {
	w, err := toTypeWire(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalType decodes a type written by MarshalType. Unknown kinds fail.
func UnmarshalType(data []byte) (Type, error) {
	var w typeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return w.toType()
}

type typeWire struct {
	Kind          Kind            `json:"kind"`
	Value         json.RawMessage `json:"value,omitempty"`
	Properties    []propertyWire  `json:"properties,omitempty"`
	ElementType   *typeBox        `json:"elementType,omitempty"`
	Types         []typeBox       `json:"types,omitempty"`
	Discriminator string          `json:"discriminator,omitempty"`
	Name          string          `json:"name,omitempty"`
}

type propertyWire struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Optional    bool    `json:"optional"`
	Type        typeBox `json:"type"`
}

// typeBox lets Type values sit inside wire structs.
type typeBox struct{ T Type }

func (b typeBox) MarshalJSON() ([]byte, error) { return MarshalType(b.T) }

func (b *typeBox) UnmarshalJSON(data []byte) error {
	t, err := UnmarshalType(data)
	if err != nil {
		return err
	}
	b.T = t
	return nil
}

func boxes(types []Type) []typeBox {
	out := make([]typeBox, len(types))
	for i, t := range types {
		out[i] = typeBox{T: t}
	}
	return out
}

func unbox(bs []typeBox) []Type {
	out := make([]Type, len(bs))
	for i, b := range bs {
		out[i] = b.T
	}
	return out
}

func rawValue(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func toTypeWire(t Type) (typeWire, error) {
	switch t := t.(type) {
	case nil:
		return typeWire{}, fmt.Errorf("apicontract: cannot encode nil type")
	case *NullType, *BooleanType, *StringType, *FloatType, *DoubleType,
		*Int32Type, *Int64Type, *DateType, *DateTimeType:
		return typeWire{Kind: t.Kind()}, nil
	case *BooleanLiteralType:
		return typeWire{Kind: t.Kind(), Value: rawValue(t.Value)}, nil
	case *StringLiteralType:
		return typeWire{Kind: t.Kind(), Value: rawValue(t.Value)}, nil
	case *FloatLiteralType:
		return typeWire{Kind: t.Kind(), Value: rawValue(t.Value)}, nil
	case *IntLiteralType:
		return typeWire{Kind: t.Kind(), Value: rawValue(t.Value)}, nil
	case *ObjectType:
		w := typeWire{Kind: t.Kind(), Properties: make([]propertyWire, len(t.Properties))}
		for i, p := range t.Properties {
			w.Properties[i] = propertyWire{Name: p.Name, Description: p.Description, Optional: p.Optional, Type: typeBox{T: p.Type}}
		}
		return w, nil
	case *ArrayType:
		return typeWire{Kind: t.Kind(), ElementType: &typeBox{T: t.Element}}, nil
	case *UnionType:
		return typeWire{Kind: t.Kind(), Types: boxes(t.Types), Discriminator: t.Discriminator}, nil
	case *IntersectionType:
		return typeWire{Kind: t.Kind(), Types: boxes(t.Types)}, nil
	case *ReferenceType:
		return typeWire{Kind: t.Kind(), Name: t.Name}, nil
	default:
		panic(unhandled(t))
	}
}

func (w typeWire) toType() (Type, error) {
	literal := func(dst any) error {
		if len(w.Value) == 0 {
			return fmt.Errorf("apicontract: %s type without value", w.Kind)
		}
		if err := json.Unmarshal(w.Value, dst); err != nil {
			return fmt.Errorf("apicontract: %s value: %w", w.Kind, err)
		}
		return nil
	}
	switch w.Kind {
	case KindNull:
		return Null(), nil
	case KindBoolean:
		return Boolean(), nil
	case KindString:
		return String(), nil
	case KindFloat:
		return Float(), nil
	case KindDouble:
		return Double(), nil
	case KindInt32:
		return Int32(), nil
	case KindInt64:
		return Int64(), nil
	case KindDate:
		return Date(), nil
	case KindDateTime:
		return DateTime(), nil
	case KindBooleanLiteral:
		var v bool
		if err := literal(&v); err != nil {
			return nil, err
		}
		return BooleanLiteral(v), nil
	case KindStringLiteral:
		var v string
		if err := literal(&v); err != nil {
			return nil, err
		}
		return StringLiteral(v), nil
	case KindFloatLiteral:
		var v float64
		if err := literal(&v); err != nil {
			return nil, err
		}
		return FloatLiteral(v), nil
	case KindIntLiteral:
		var v int64
		if err := literal(&v); err != nil {
			return nil, err
		}
		return IntLiteral(v), nil
	case KindObject:
		props := make([]Property, len(w.Properties))
		for i, p := range w.Properties {
			if p.Type.T == nil {
				return nil, fmt.Errorf("apicontract: property %q without type", p.Name)
			}
			props[i] = Property{Name: p.Name, Description: p.Description, Optional: p.Optional, Type: p.Type.T}
		}
		return &ObjectType{Properties: props}, nil
	case KindArray:
		if w.ElementType == nil || w.ElementType.T == nil {
			return nil, fmt.Errorf("apicontract: array type without elementType")
		}
		return Array(w.ElementType.T), nil
	case KindUnion:
		return &UnionType{Types: unbox(w.Types), Discriminator: w.Discriminator}, nil
	case KindIntersection:
		return Intersection(unbox(w.Types)...), nil
	case KindReference:
		if w.Name == "" {
			return nil, fmt.Errorf("apicontract: reference type without name")
		}
		return Reference(w.Name), nil
	default:
		return nil, fmt.Errorf("apicontract: unknown type kind %q", w.Kind)
	}
}

// ---- contract wire shape ----

type contractWire struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Version     string              `json:"version,omitempty"`
	Config      configWire          `json:"config"`
	Types       []namedTypeWire     `json:"types"`
	Security    *securityHeaderWire `json:"security,omitempty"`
	Endpoints   []endpointWire      `json:"endpoints"`
}

type configWire struct {
	ParamSerializationStrategy struct {
		Query struct {
			Array QueryArrayStrategy `json:"array"`
		} `json:"query"`
	} `json:"paramSerializationStrategy"`
}

type namedTypeWire struct {
	Name    string      `json:"name"`
	TypeDef typeDefWire `json:"typeDef"`
}

type typeDefWire struct {
	Type        typeBox `json:"type"`
	Description string  `json:"description,omitempty"`
}

type securityHeaderWire struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Type        typeBox `json:"type"`
}

type endpointWire struct {
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Tags            []string             `json:"tags"`
	Method          HTTPMethod           `json:"method"`
	Path            string               `json:"path"`
	Request         *requestWire         `json:"request,omitempty"`
	Responses       []responseWire       `json:"responses"`
	DefaultResponse *defaultResponseWire `json:"defaultResponse,omitempty"`
	Draft           bool                 `json:"draft"`
}

type requestWire struct {
	Headers     []paramWire `json:"headers"`
	PathParams  []paramWire `json:"pathParams"`
	QueryParams []paramWire `json:"queryParams"`
	Body        *bodyWire   `json:"body,omitempty"`
}

type responseWire struct {
	Status      int         `json:"status"`
	Description string      `json:"description,omitempty"`
	Headers     []paramWire `json:"headers"`
	Body        *bodyWire   `json:"body,omitempty"`
}

type defaultResponseWire struct {
	Description string      `json:"description,omitempty"`
	Headers     []paramWire `json:"headers"`
	Body        *bodyWire   `json:"body,omitempty"`
}

// paramWire covers headers, path params and query params; path params have
// no optional flag.
type paramWire struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        typeBox       `json:"type"`
	Optional    *bool         `json:"optional,omitempty"`
	Examples    []exampleWire `json:"examples,omitempty"`
}

type exampleWire struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type bodyWire struct {
	Type        typeBox `json:"type"`
	Description string  `json:"description,omitempty"`
}

// MarshalJSON encodes the contract in its wire shape.
func (c Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(contractToWire(&c))
}

// UnmarshalJSON decodes the contract wire shape.
func (c *Contract) UnmarshalJSON(data []byte) error {
	var w contractWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out, err := w.toContract()
	if err != nil {
		return err
	}
	*c = *out
	return nil
}

func contractToWire(c *Contract) contractWire {
	w := contractWire{
		Name:        c.Name,
		Description: c.Description,
		Version:     c.Version,
		Types:       make([]namedTypeWire, len(c.Types)),
		Endpoints:   make([]endpointWire, len(c.Endpoints)),
	}
	w.Config.ParamSerializationStrategy.Query.Array = c.Config.QueryArrayStrategy()
	for i, nt := range c.Types {
		w.Types[i] = namedTypeWire{Name: nt.Name, TypeDef: typeDefWire{Type: typeBox{T: nt.Def.Type}, Description: nt.Def.Description}}
	}
	if s := c.Security; s != nil {
		w.Security = &securityHeaderWire{Name: s.Name, Description: s.Description, Type: typeBox{T: s.Type}}
	}
	for i, e := range c.Endpoints {
		ew := endpointWire{
			Name:        e.Name,
			Description: e.Description,
			Tags:        e.Tags,
			Method:      e.Method,
			Path:        e.Path,
			Responses:   make([]responseWire, len(e.Responses)),
			Draft:       e.Draft,
		}
		if ew.Tags == nil {
			ew.Tags = []string{}
		}
		if r := e.Request; r != nil {
			rw := &requestWire{Headers: headersToWire(r.Headers), Body: bodyToWire(r.Body)}
			rw.PathParams = make([]paramWire, len(r.PathParams))
			for j, p := range r.PathParams {
				rw.PathParams[j] = paramWire{Name: p.Name, Description: p.Description, Type: typeBox{T: p.Type}, Examples: examplesToWire(p.Examples)}
			}
			rw.QueryParams = make([]paramWire, len(r.QueryParams))
			for j, q := range r.QueryParams {
				opt := q.Optional
				rw.QueryParams[j] = paramWire{Name: q.Name, Description: q.Description, Type: typeBox{T: q.Type}, Optional: &opt, Examples: examplesToWire(q.Examples)}
			}
			ew.Request = rw
		}
		for j, resp := range e.Responses {
			ew.Responses[j] = responseWire{Status: resp.Status, Description: resp.Description, Headers: headersToWire(resp.Headers), Body: bodyToWire(resp.Body)}
		}
		if d := e.DefaultResponse; d != nil {
			ew.DefaultResponse = &defaultResponseWire{Description: d.Description, Headers: headersToWire(d.Headers), Body: bodyToWire(d.Body)}
		}
		w.Endpoints[i] = ew
	}
	return w
}

func headersToWire(hs []Header) []paramWire {
	out := make([]paramWire, len(hs))
	for i, h := range hs {
		opt := h.Optional
		out[i] = paramWire{Name: h.Name, Description: h.Description, Type: typeBox{T: h.Type}, Optional: &opt, Examples: examplesToWire(h.Examples)}
	}
	return out
}

func examplesToWire(es []Example) []exampleWire {
	if len(es) == 0 {
		return nil
	}
	out := make([]exampleWire, len(es))
	for i, e := range es {
		out[i] = exampleWire{Name: e.Name, Value: e.Value}
	}
	return out
}

func bodyToWire(b *Body) *bodyWire {
	if b == nil {
		return nil
	}
	return &bodyWire{Type: typeBox{T: b.Type}, Description: b.Description}
}

func (w *contractWire) toContract() (*Contract, error) {
	c := &Contract{
		Name:        w.Name,
		Description: w.Description,
		Version:     w.Version,
		Config:      Config{QueryArraySerialization: w.Config.ParamSerializationStrategy.Query.Array},
	}
	switch c.Config.QueryArraySerialization {
	case "", QueryArrayAmpersand, QueryArrayComma:
	default:
		return nil, fmt.Errorf("apicontract: unknown query array strategy %q", c.Config.QueryArraySerialization)
	}
	for _, nt := range w.Types {
		if nt.TypeDef.Type.T == nil {
			return nil, fmt.Errorf("apicontract: type %q without definition", nt.Name)
		}
		c.Types = append(c.Types, NamedType{Name: nt.Name, Def: TypeDef{Type: nt.TypeDef.Type.T, Description: nt.TypeDef.Description}})
	}
	if s := w.Security; s != nil {
		c.Security = &SecurityHeader{Name: s.Name, Description: s.Description, Type: s.Type.T}
	}
	for _, ew := range w.Endpoints {
		switch ew.Method {
		case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		default:
			return nil, fmt.Errorf("apicontract: endpoint %q: unsupported method %q", ew.Name, ew.Method)
		}
		e := Endpoint{
			Name:        ew.Name,
			Description: ew.Description,
			Tags:        ew.Tags,
			Method:      ew.Method,
			Path:        ew.Path,
			Draft:       ew.Draft,
		}
		if rw := ew.Request; rw != nil {
			r := &Request{Headers: headersFromWire(rw.Headers), Body: bodyFromWire(rw.Body)}
			for _, p := range rw.PathParams {
				r.PathParams = append(r.PathParams, PathParam{Name: p.Name, Description: p.Description, Type: p.Type.T, Examples: examplesFromWire(p.Examples)})
			}
			for _, q := range rw.QueryParams {
				r.QueryParams = append(r.QueryParams, QueryParam{Name: q.Name, Description: q.Description, Type: q.Type.T, Optional: q.Optional != nil && *q.Optional, Examples: examplesFromWire(q.Examples)})
			}
			e.Request = r
		}
		for _, rw := range ew.Responses {
			e.Responses = append(e.Responses, Response{Status: rw.Status, Description: rw.Description, Headers: headersFromWire(rw.Headers), Body: bodyFromWire(rw.Body)})
		}
		if d := ew.DefaultResponse; d != nil {
			e.DefaultResponse = &DefaultResponse{Description: d.Description, Headers: headersFromWire(d.Headers), Body: bodyFromWire(d.Body)}
		}
		c.Endpoints = append(c.Endpoints, e)
	}
	return c, nil
}

func headersFromWire(ps []paramWire) []Header {
	var out []Header
	for _, p := range ps {
		out = append(out, Header{Name: p.Name, Description: p.Description, Type: p.Type.T, Optional: p.Optional != nil && *p.Optional, Examples: examplesFromWire(p.Examples)})
	}
	return out
}

func examplesFromWire(es []exampleWire) []Example {
	var out []Example
	for _, e := range es {
		out = append(out, Example{Name: e.Name, Value: e.Value})
	}
	return out
}

func bodyFromWire(b *bodyWire) *Body {
	if b == nil {
		return nil
	}
	return &Body{Type: b.Type.T, Description: b.Description}
}
