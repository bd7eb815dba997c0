// Package verify checks recorded HTTP interactions against a contract and
// reports every departure as a typed violation.
//
// Request headers and bodies are checked strictly: undeclared headers and
// unknown body properties are violations. Responses are lenient: extra
// headers and extra body properties are tolerated.
package verify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/jsonschema"
	"github.com/reoring/apicontract/strval"
)

// ErrUndeclaredPathParam is returned by New when a path template names a
// parameter the endpoint does not declare.
var ErrUndeclaredPathParam = errors.New("verify: path parameter not declared")

// Verifier checks interactions against one contract. It is immutable once
// built and safe for concurrent use.
type Verifier struct {
	contract  *apicontract.Contract
	table     *apicontract.TypeTable
	strategy  apicontract.QueryArrayStrategy
	endpoints []*endpoint
}

type endpoint struct {
	def            *apicontract.Endpoint
	segments       []string
	pathParams     map[string]apicontract.Type
	requestHeaders []apicontract.Header
	arrayQuery     map[string]bool
	requestBody    *jsonschema.Validator
	responses      map[int]*response
	defaultResp    *response
}

type response struct {
	headers []apicontract.Header
	body    *jsonschema.Validator
}

// New builds the contract's type table and compiles a validator for every
// declared body. Request bodies are compiled closed, response bodies open.
func New(c *apicontract.Contract) (*Verifier, error) {
	table, err := c.TypeTable()
	if err != nil {
		return nil, err
	}
	if err := c.Check(table); err != nil {
		return nil, err
	}
	v := &Verifier{contract: c, table: table, strategy: c.Config.QueryArrayStrategy()}
	for i := range c.Endpoints {
		ep, err := v.compile(&c.Endpoints[i])
		if err != nil {
			return nil, fmt.Errorf("verify: endpoint %s: %w", c.Endpoints[i].Name, err)
		}
		v.endpoints = append(v.endpoints, ep)
	}
	return v, nil
}

// Contract returns the contract the verifier was built from.
func (v *Verifier) Contract() *apicontract.Contract { return v.contract }

func (v *Verifier) compile(def *apicontract.Endpoint) (*endpoint, error) {
	ep := &endpoint{
		def:        def,
		segments:   apicontract.PathSegments(def.Path),
		pathParams: map[string]apicontract.Type{},
		arrayQuery: map[string]bool{},
		responses:  map[int]*response{},
	}
	if r := def.Request; r != nil {
		for _, p := range r.PathParams {
			ep.pathParams[p.Name] = p.Type
		}
		ep.requestHeaders = append(ep.requestHeaders, r.Headers...)
		for _, q := range r.QueryParams {
			roots, err := apicontract.PossibleRootTypes(q.Type, v.table)
			if err != nil {
				return nil, err
			}
			for _, root := range roots {
				if root.Kind() == apicontract.KindArray {
					ep.arrayQuery[q.Name] = true
				}
			}
		}
		if r.Body != nil {
			val, err := jsonschema.Compile(r.Body.Type, v.table, jsonschema.Closed)
			if err != nil {
				return nil, fmt.Errorf("request body: %w", err)
			}
			ep.requestBody = val
		}
	}
	for _, seg := range ep.segments {
		if name, ok := apicontract.PathParamName(seg); ok {
			if _, declared := ep.pathParams[name]; !declared {
				return nil, fmt.Errorf("%w: %q", ErrUndeclaredPathParam, name)
			}
		}
	}
	// the security header may accompany any request
	if sec := v.contract.Security; sec != nil {
		if _, ok := declaredHeader(ep.requestHeaders, sec.Name); !ok {
			ep.requestHeaders = append(ep.requestHeaders, apicontract.Header{
				Name: sec.Name, Description: sec.Description, Type: sec.Type, Optional: true,
			})
		}
	}
	for _, resp := range def.Responses {
		r, err := v.response(resp.Headers, resp.Body)
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", resp.Status, err)
		}
		if _, dup := ep.responses[resp.Status]; !dup {
			ep.responses[resp.Status] = r
		}
	}
	if d := def.DefaultResponse; d != nil {
		r, err := v.response(d.Headers, d.Body)
		if err != nil {
			return nil, fmt.Errorf("default response: %w", err)
		}
		ep.defaultResp = r
	}
	return ep, nil
}

func (v *Verifier) response(headers []apicontract.Header, body *apicontract.Body) (*response, error) {
	r := &response{headers: headers}
	if body != nil {
		val, err := jsonschema.Compile(body.Type, v.table, jsonschema.Open)
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		r.body = val
	}
	return r, nil
}

func declaredHeader(headers []apicontract.Header, name string) (apicontract.Header, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return apicontract.Header{}, false
}

// Verify checks in against the contract. The returned error is reserved for
// contract-shape problems; departures of the interaction are violations.
func (v *Verifier) Verify(in Interaction) (Report, error) {
	report := Report{Violations: []Violation{}}
	path, query, _ := strings.Cut(in.Request.Path, "?")

	ep := v.match(in.Request.Method, path)
	if ep == nil {
		report.add(KindUndefinedEndpoint, fmt.Sprintf("Endpoint %s %s not found.", in.Request.Method, in.Request.Path))
		return report, nil
	}
	report.Context.Endpoint = ep.def.Name

	resp := ep.response(in.Response.Status)
	if resp == nil {
		report.add(KindUndefinedEndpointResponse, fmt.Sprintf("There is no response or default response defined on %s:%s", ep.def.Path, ep.def.Method))
		return report, nil
	}

	steps := []func(*Report) error{
		func(r *Report) error {
			return v.headers(r, requestHeaderKinds, ep.requestHeaders, in.Request.Headers, true)
		},
		func(r *Report) error {
			return v.headers(r, responseHeaderKinds, resp.headers, in.Response.Headers, false)
		},
		func(r *Report) error {
			v.requestBody(r, ep, in.Request.Body)
			return nil
		},
		func(r *Report) error {
			v.responseBody(r, resp, in.Response.Body)
			return nil
		},
		func(r *Report) error { return v.pathParams(r, ep, path) },
		func(r *Report) error { return v.queryParams(r, ep, query) },
	}
	for _, step := range steps {
		if err := step(&report); err != nil {
			return Report{}, fmt.Errorf("verify: endpoint %s: %w", ep.def.Name, err)
		}
	}
	return report, nil
}

// match returns the first endpoint whose method and path template match.
func (v *Verifier) match(method, path string) *endpoint {
	segs := apicontract.PathSegments(path)
	for _, ep := range v.endpoints {
		if !strings.EqualFold(string(ep.def.Method), method) || len(ep.segments) != len(segs) {
			continue
		}
		matched := true
		for i, tmpl := range ep.segments {
			if _, ok := apicontract.PathParamName(tmpl); ok {
				if segs[i] == "" {
					matched = false
					break
				}
				continue
			}
			if tmpl != segs[i] {
				matched = false
				break
			}
		}
		if matched {
			return ep
		}
	}
	return nil
}

func (ep *endpoint) response(status int) *response {
	if r, ok := ep.responses[status]; ok {
		return r
	}
	return ep.defaultResp
}

type headerKinds struct {
	side      string
	missing   Kind
	undefined Kind
	disparity Kind
}

var (
	requestHeaderKinds  = headerKinds{"request", KindRequiredRequestHeaderMissing, KindUndefinedRequestHeader, KindRequestHeaderTypeDisparity}
	responseHeaderKinds = headerKinds{"response", KindRequiredResponseHeaderMissing, KindUndefinedResponseHeader, KindResponseHeaderTypeDisparity}
)

func (v *Verifier) headers(r *Report, k headerKinds, declared []apicontract.Header, observed []HeaderField, strict bool) error {
	title := strings.ToUpper(k.side[:1]) + k.side[1:]
	for _, h := range declared {
		got, ok := findHeader(observed, h.Name)
		if !ok {
			if !h.Optional {
				r.add(k.missing, fmt.Sprintf("Required %s header %q missing", k.side, h.Name))
			}
			continue
		}
		disp, err := strval.ValidateText(v.table, got.Value, h.Type)
		if err != nil {
			return fmt.Errorf("%s header %s: %w", k.side, h.Name, err)
		}
		if len(disp) > 0 {
			r.addDisparity(k.disparity, fmt.Sprintf("%s header %q type disparity: %s", title, h.Name, strings.Join(disp, ", ")), disp)
		}
	}
	if !strict {
		return nil
	}
	for _, f := range observed {
		if _, ok := declaredHeader(declared, f.Name); !ok {
			r.add(k.undefined, fmt.Sprintf("%s header %q not defined in contract %s headers", title, f.Name, k.side))
		}
	}
	return nil
}

func (v *Verifier) requestBody(r *Report, ep *endpoint, body Body) {
	if ep.requestBody == nil {
		if body.Present() {
			r.add(KindUndefinedRequestBody, "Request body not defined in contract")
		}
		return
	}
	if !body.Present() {
		disp := []string{"# body is required"}
		r.addDisparity(KindRequestBodyTypeDisparity, bodyMessage("Request", nil, disp), disp)
		return
	}
	if disp := ep.requestBody.ValidateJSON(body); len(disp) > 0 {
		r.addDisparity(KindRequestBodyTypeDisparity, bodyMessage("Request", body, disp), disp)
	}
}

func (v *Verifier) responseBody(r *Report, resp *response, body Body) {
	if resp.body == nil {
		return
	}
	if !body.Present() {
		r.add(KindUndefinedResponseBody, "Response body not found but defined in contract")
		return
	}
	if disp := resp.body.ValidateJSON(body); len(disp) > 0 {
		r.addDisparity(KindResponseBodyTypeDisparity, bodyMessage("Response", body, disp), disp)
	}
}

func bodyMessage(side string, body Body, disp []string) string {
	var b strings.Builder
	b.WriteString(side + " body type disparity:\n")
	b.WriteString(prettyBody(body))
	for _, d := range disp {
		b.WriteString("\n- " + d)
	}
	return b.String()
}

// prettyBody indents body when it is valid JSON and returns it unchanged otherwise.
func prettyBody(body Body) string {
	if len(body) == 0 {
		return ""
	}
	value, err := jsonschema.DecodeJSON(body)
	if err != nil {
		return string(body)
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}

func (v *Verifier) pathParams(r *Report, ep *endpoint, path string) error {
	segs := apicontract.PathSegments(path)
	for i, tmpl := range ep.segments {
		name, ok := apicontract.PathParamName(tmpl)
		if !ok {
			continue
		}
		text := segs[i]
		if u, err := url.PathUnescape(text); err == nil {
			text = u
		}
		disp, err := strval.ValidateText(v.table, text, ep.pathParams[name])
		if err != nil {
			return fmt.Errorf("path param %s: %w", name, err)
		}
		if len(disp) > 0 {
			r.addDisparity(KindPathParamTypeDisparity, fmt.Sprintf("Path param %q type disparity: %s", name, strings.Join(disp, ", ")), disp)
		}
	}
	return nil
}

func (v *Verifier) queryParams(r *Report, ep *endpoint, raw string) error {
	entries := parseQuery(raw)
	consumed := map[string]bool{}
	var declared []apicontract.QueryParam
	if ep.def.Request != nil {
		declared = ep.def.Request.QueryParams
	}
	for _, q := range declared {
		e, ok := entries.Get(q.Name)
		if !ok {
			if !q.Optional {
				r.add(KindRequiredQueryParamMissing, fmt.Sprintf("Required query param %q missing", q.Name))
			}
			continue
		}
		consumed[q.Name] = true
		value, extra := e.value(ep.arrayQuery[q.Name], v.strategy)
		disp, err := strval.Validate(v.table, value, q.Type)
		if err != nil {
			return fmt.Errorf("query param %s: %w", q.Name, err)
		}
		if len(disp) > 0 {
			r.addDisparity(KindQueryParamTypeDisparity, fmt.Sprintf("Query param %q type disparity: %s", q.Name, strings.Join(disp, ", ")), disp)
		}
		for range extra {
			r.add(KindUndefinedQueryParam, fmt.Sprintf("Query param %q not defined in contract request query params", q.Name))
		}
	}
	for _, name := range entries.Keys() {
		if !consumed[name] {
			r.add(KindUndefinedQueryParam, fmt.Sprintf("Query param %q not defined in contract request query params", name))
		}
	}
	return nil
}
