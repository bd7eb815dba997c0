package apicontract

import (
	"fmt"
	"strings"
)

// QueryArrayStrategy selects how array query parameters are serialized.
type QueryArrayStrategy string

const (
	// QueryArrayAmpersand repeats the key: ?id=3&id=4
	QueryArrayAmpersand QueryArrayStrategy = "ampersand"
	// QueryArrayComma joins the values: ?id=3,4
	QueryArrayComma QueryArrayStrategy = "comma"
)

// HTTPMethod is one of the methods a contract endpoint may declare.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// Config carries contract-wide options.
type Config struct {
	QueryArraySerialization QueryArrayStrategy
}

// QueryArrayStrategy returns the configured strategy, defaulting to ampersand.
func (c Config) QueryArrayStrategy() QueryArrayStrategy {
	if c.QueryArraySerialization == "" {
		return QueryArrayAmpersand
	}
	return c.QueryArraySerialization
}

// Contract is the language-agnostic description of an API.
type Contract struct {
	Name        string
	Description string
	Version     string
	Config      Config
	Types       []NamedType
	Security    *SecurityHeader
	Endpoints   []Endpoint
}

// SecurityHeader is the header carrying credentials for every endpoint.
type SecurityHeader struct {
	Name        string
	Description string
	Type        Type
}

type Endpoint struct {
	Name            string
	Description     string
	Tags            []string
	Method          HTTPMethod
	Path            string
	Request         *Request
	Responses       []Response
	DefaultResponse *DefaultResponse
	Draft           bool
}

type Request struct {
	Headers     []Header
	PathParams  []PathParam
	QueryParams []QueryParam
	Body        *Body
}

type Response struct {
	Status      int
	Description string
	Headers     []Header
	Body        *Body
}

// DefaultResponse is a Response without a status code.
type DefaultResponse struct {
	Description string
	Headers     []Header
	Body        *Body
}

type Header struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Examples    []Example
}

type PathParam struct {
	Name        string
	Description string
	Type        Type
	Examples    []Example
}

type QueryParam struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Examples    []Example
}

type Example struct {
	Name  string
	Value any
}

type Body struct {
	Type        Type
	Description string
}

// TypeTable builds and seals the table of the contract's named types.
func (c *Contract) TypeTable() (*TypeTable, error) {
	return BuildTypeTable(c.Types)
}

// Check runs the definition-time type checks against every type used by the
// contract's endpoints and security header.
func (c *Contract) Check(table *TypeTable) error {
	check := func(where string, t Type) error {
		if t == nil {
			return &ShapeError{Op: where, Err: fmt.Errorf("%w: missing type", ErrUnsupported)}
		}
		if err := CheckType(t, table); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		return nil
	}
	if c.Security != nil {
		if err := check("security header "+c.Security.Name, c.Security.Type); err != nil {
			return err
		}
	}
	for _, e := range c.Endpoints {
		at := "endpoint " + e.Name
		if r := e.Request; r != nil {
			for _, h := range r.Headers {
				if err := check(at+" request header "+h.Name, h.Type); err != nil {
					return err
				}
			}
			for _, p := range r.PathParams {
				if err := check(at+" path param "+p.Name, p.Type); err != nil {
					return err
				}
			}
			for _, q := range r.QueryParams {
				if err := check(at+" query param "+q.Name, q.Type); err != nil {
					return err
				}
			}
			if r.Body != nil {
				if err := check(at+" request body", r.Body.Type); err != nil {
					return err
				}
			}
		}
		for _, resp := range e.Responses {
			if err := checkResponse(check, fmt.Sprintf("%s response %d", at, resp.Status), resp.Headers, resp.Body); err != nil {
				return err
			}
		}
		if d := e.DefaultResponse; d != nil {
			if err := checkResponse(check, at+" default response", d.Headers, d.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkResponse(check func(string, Type) error, at string, headers []Header, body *Body) error {
	for _, h := range headers {
		if err := check(at+" header "+h.Name, h.Type); err != nil {
			return err
		}
	}
	if body != nil {
		return check(at+" body", body.Type)
	}
	return nil
}

// FindEndpoint returns the endpoint with the given name.
func (c *Contract) FindEndpoint(name string) (*Endpoint, bool) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], true
		}
	}
	return nil, false
}

// PathSegments splits a path template or concrete path on "/", dropping the
// leading empty segment.
func PathSegments(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// PathParamName returns the parameter name of a ":name" template segment.
func PathParamName(segment string) (string, bool) {
	if strings.HasPrefix(segment, ":") && len(segment) > 1 {
		return segment[1:], true
	}
	return "", false
}

// RenderPath rewrites ":name" segments as "{name}".
func RenderPath(template string) string {
	segs := PathSegments(template)
	for i, s := range segs {
		if name, ok := PathParamName(s); ok {
			segs[i] = "{" + name + "}"
		}
	}
	return "/" + strings.Join(segs, "/")
}

// DefaultDescription returns the response description used when none is set.
func (r Response) DefaultDescription() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("%d response", r.Status)
}

// DefaultDescription returns the response description used when none is set.
func (r DefaultResponse) DefaultDescription() string {
	if r.Description != "" {
		return r.Description
	}
	return "default response"
}
