package verify_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/verify"
)

func usersContract(strategy apicontract.QueryArrayStrategy) *apicontract.Contract {
	return &apicontract.Contract{
		Name:   "Users",
		Config: apicontract.Config{QueryArraySerialization: strategy},
		Types: []apicontract.NamedType{
			{Name: "User", Def: apicontract.TypeDef{Type: apicontract.Object(apicontract.Prop("name", apicontract.String()))}},
		},
		Security: &apicontract.SecurityHeader{Name: "x-auth-token", Type: apicontract.String()},
		Endpoints: []apicontract.Endpoint{
			{
				Name:   "GetUser",
				Method: apicontract.MethodGet,
				Path:   "/users/:id",
				Request: &apicontract.Request{
					PathParams: []apicontract.PathParam{{Name: "id", Type: apicontract.Int32()}},
				},
				Responses: []apicontract.Response{{
					Status:  200,
					Headers: []apicontract.Header{{Name: "x-request-id", Type: apicontract.String()}},
					Body:    &apicontract.Body{Type: apicontract.Reference("User")},
				}},
			},
			{
				Name:   "FindUsers",
				Method: apicontract.MethodGet,
				Path:   "/users",
				Request: &apicontract.Request{
					Headers: []apicontract.Header{{Name: "x-tenant", Type: apicontract.Int64()}},
					QueryParams: []apicontract.QueryParam{
						{Name: "ids", Type: apicontract.Array(apicontract.Int32())},
						{Name: "name", Type: apicontract.String(), Optional: true},
						{Name: "filter", Type: apicontract.Object(apicontract.Prop("active", apicontract.Boolean())), Optional: true},
					},
				},
				Responses: []apicontract.Response{{Status: 200, Body: &apicontract.Body{Type: apicontract.Array(apicontract.Reference("User"))}}},
			},
			{
				Name:   "CreateUser",
				Method: apicontract.MethodPost,
				Path:   "/users",
				Request: &apicontract.Request{
					Body: &apicontract.Body{Type: apicontract.Reference("User")},
				},
				Responses:       []apicontract.Response{{Status: 201}},
				DefaultResponse: &apicontract.DefaultResponse{Body: &apicontract.Body{Type: apicontract.Object(apicontract.Prop("message", apicontract.String()))}},
			},
		},
	}
}

func mustVerifier(t *testing.T, c *apicontract.Contract) *verify.Verifier {
	t.Helper()
	v, err := verify.New(c)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return v
}

func kinds(r verify.Report) []verify.Kind {
	out := []verify.Kind{}
	for _, v := range r.Violations {
		out = append(out, v.Kind)
	}
	return out
}

func run(t *testing.T, v *verify.Verifier, in verify.Interaction) verify.Report {
	t.Helper()
	r, err := v.Verify(in)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return r
}

func TestVerify_GetUserEndToEnd(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	headers := []verify.HeaderField{{Name: "X-Request-Id", Value: "r1"}}

	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/abc"},
		Response: verify.RecordedResponse{Status: 200, Headers: headers, Body: verify.Body(`{"name":"Bob"}`)},
	})
	if len(r.Violations) != 1 || r.Violations[0].Kind != verify.KindPathParamTypeDisparity || len(r.Violations[0].TypeDisparities) == 0 {
		t.Fatalf("unexpected violations %+v", r.Violations)
	}
	if r.Context.Endpoint != "GetUser" {
		t.Fatalf("unexpected endpoint %q", r.Context.Endpoint)
	}

	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "get", Path: "/users/7"},
		Response: verify.RecordedResponse{Status: 200, Headers: headers, Body: verify.Body(`{"name":"Bob"}`)},
	})
	if !r.OK() {
		t.Fatalf("expected no violations, got %+v", r.Violations)
	}
}

func TestVerify_UndefinedEndpoint(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "DELETE", Path: "/users/7"},
		Response: verify.RecordedResponse{Status: 204},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedEndpoint}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if r.Violations[0].Message != "Endpoint DELETE /users/7 not found." || r.Context.Endpoint != "" {
		t.Fatalf("unexpected report %+v", r)
	}

	// one segment per path parameter
	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/7/posts"},
		Response: verify.RecordedResponse{Status: 200},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedEndpoint}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
}

func TestVerify_UndefinedEndpointResponse(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/7"},
		Response: verify.RecordedResponse{Status: 404},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedEndpointResponse}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if r.Context.Endpoint != "GetUser" {
		t.Fatalf("unexpected endpoint %q", r.Context.Endpoint)
	}
}

func TestVerify_RequestHeaders(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	ok := verify.RecordedResponse{Status: 200, Body: verify.Body(`[]`)}

	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users?ids=1"},
		Response: ok,
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindRequiredRequestHeaderMissing}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if r.Violations[0].Message != `Required request header "x-tenant" missing` {
		t.Fatalf("unexpected message %q", r.Violations[0].Message)
	}

	r = run(t, v, verify.Interaction{
		Request: verify.RecordedRequest{Method: "GET", Path: "/users?ids=1", Headers: []verify.HeaderField{
			{Name: "X-Tenant", Value: "acme"},
			{Name: "X-Auth-Token", Value: "secret"},
			{Name: "Accept", Value: "application/json"},
		}},
		Response: ok,
	})
	want := []verify.Kind{verify.KindRequestHeaderTypeDisparity, verify.KindUndefinedRequestHeader}
	if !reflect.DeepEqual(kinds(r), want) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if r.Violations[1].Message != `Request header "Accept" not defined in contract request headers` {
		t.Fatalf("unexpected message %q", r.Violations[1].Message)
	}
}

func TestVerify_ResponseHeaderLeniency(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	r := run(t, v, verify.Interaction{
		Request: verify.RecordedRequest{Method: "GET", Path: "/users/7"},
		Response: verify.RecordedResponse{Status: 200, Body: verify.Body(`{"name":"Bob"}`), Headers: []verify.HeaderField{
			{Name: "x-request-id", Value: "r1"},
			{Name: "Content-Type", Value: "application/json"},
		}},
	})
	if !r.OK() {
		t.Fatalf("expected extra response headers to be tolerated, got %+v", r.Violations)
	}

	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/7"},
		Response: verify.RecordedResponse{Status: 200, Body: verify.Body(`{"name":"Bob"}`)},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindRequiredResponseHeaderMissing}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
}

func TestVerify_Bodies(t *testing.T) {
	v := mustVerifier(t, usersContract(""))

	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "POST", Path: "/users", Body: verify.Body(`{"name":"Bob","admin":true}`)},
		Response: verify.RecordedResponse{Status: 201},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindRequestBodyTypeDisparity}) {
		t.Fatalf("expected closed request body, got %v", kinds(r))
	}
	if !strings.HasPrefix(r.Violations[0].Message, "Request body type disparity:\n{\n") {
		t.Fatalf("unexpected message %q", r.Violations[0].Message)
	}

	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "POST", Path: "/users"},
		Response: verify.RecordedResponse{Status: 201},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindRequestBodyTypeDisparity}) {
		t.Fatalf("expected missing request body disparity, got %v", kinds(r))
	}

	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/7", Headers: []verify.HeaderField{{Name: "x-auth-token", Value: "t"}}, Body: verify.Body(`{}`)},
		Response: verify.RecordedResponse{Status: 200, Headers: []verify.HeaderField{{Name: "x-request-id", Value: "r"}}, Body: verify.Body(`{"name":"Bob","extra":1}`)},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedRequestBody}) {
		t.Fatalf("expected undefined request body and open response, got %v", kinds(r))
	}

	// the default response applies to unlisted statuses
	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "POST", Path: "/users", Body: verify.Body(`{"name":"Bob"}`)},
		Response: verify.RecordedResponse{Status: 500},
	})
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedResponseBody}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}

	r = run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "POST", Path: "/users", Body: verify.Body(`{"name":`)},
		Response: verify.RecordedResponse{Status: 500, Body: verify.Body(`{"message":7}`)},
	})
	want := []verify.Kind{verify.KindRequestBodyTypeDisparity, verify.KindResponseBodyTypeDisparity}
	if !reflect.DeepEqual(kinds(r), want) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if d := r.Violations[0].TypeDisparities; len(d) != 1 || !strings.HasPrefix(d[0], "# invalid JSON") {
		t.Fatalf("unexpected disparities %v", d)
	}
	if d := r.Violations[1].TypeDisparities; len(d) == 0 || !strings.HasPrefix(d[0], "#/message ") {
		t.Fatalf("unexpected disparities %v", d)
	}
}

func TestVerify_QueryAmpersand(t *testing.T) {
	v := mustVerifier(t, usersContract(apicontract.QueryArrayAmpersand))
	req := func(path string) verify.Interaction {
		return verify.Interaction{
			Request:  verify.RecordedRequest{Method: "GET", Path: path, Headers: []verify.HeaderField{{Name: "x-tenant", Value: "1"}}},
			Response: verify.RecordedResponse{Status: 200, Body: verify.Body(`[]`)},
		}
	}

	if r := run(t, v, req("/users?ids=3&ids=4&name=a%20b")); !r.OK() {
		t.Fatalf("expected repeated keys to form a list, got %+v", r.Violations)
	}
	if r := run(t, v, req("/users?ids[]=3&ids[]=4")); !r.OK() {
		t.Fatalf("expected bracket keys to form a list, got %+v", r.Violations)
	}
	r := run(t, v, req("/users?ids=3,4"))
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindQueryParamTypeDisparity}) {
		t.Fatalf("expected comma text to fail under ampersand, got %v", kinds(r))
	}
	r = run(t, v, req("/users?name=a"))
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindRequiredQueryParamMissing}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	r = run(t, v, req("/users?ids=1&page=2&name=x&name=y"))
	want := []verify.Kind{verify.KindQueryParamTypeDisparity, verify.KindUndefinedQueryParam}
	if !reflect.DeepEqual(kinds(r), want) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if r.Violations[1].Message != `Query param "page" not defined in contract request query params` {
		t.Fatalf("unexpected message %q", r.Violations[1].Message)
	}
}

func TestVerify_QueryComma(t *testing.T) {
	v := mustVerifier(t, usersContract(apicontract.QueryArrayComma))
	req := func(path string) verify.Interaction {
		return verify.Interaction{
			Request:  verify.RecordedRequest{Method: "GET", Path: path, Headers: []verify.HeaderField{{Name: "x-tenant", Value: "1"}}},
			Response: verify.RecordedResponse{Status: 200, Body: verify.Body(`[]`)},
		}
	}
	if r := run(t, v, req("/users?ids=3,4")); !r.OK() {
		t.Fatalf("expected comma list to pass, got %+v", r.Violations)
	}
	r := run(t, v, req("/users?ids=3&ids=4"))
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindUndefinedQueryParam}) {
		t.Fatalf("expected repeated key to be undefined under comma, got %v", kinds(r))
	}
}

func TestVerify_QueryDeepObject(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	req := func(path string) verify.Interaction {
		return verify.Interaction{
			Request:  verify.RecordedRequest{Method: "GET", Path: path, Headers: []verify.HeaderField{{Name: "x-tenant", Value: "1"}}},
			Response: verify.RecordedResponse{Status: 200, Body: verify.Body(`[]`)},
		}
	}
	if r := run(t, v, req("/users?ids=1&filter[active]=true")); !r.OK() {
		t.Fatalf("expected deep object to pass, got %+v", r.Violations)
	}
	r := run(t, v, req("/users?ids=1&filter[active]=maybe&filter[role]=x"))
	if !reflect.DeepEqual(kinds(r), []verify.Kind{verify.KindQueryParamTypeDisparity}) {
		t.Fatalf("unexpected kinds %v", kinds(r))
	}
	if len(r.Violations[0].TypeDisparities) != 2 {
		t.Fatalf("unexpected disparities %v", r.Violations[0].TypeDisparities)
	}
}

func TestVerify_PercentDecodedPathSegment(t *testing.T) {
	c := usersContract("")
	c.Endpoints[0].Request.PathParams[0].Type = apicontract.StringLiteral("a b")
	v := mustVerifier(t, c)
	r := run(t, v, verify.Interaction{
		Request:  verify.RecordedRequest{Method: "GET", Path: "/users/a%20b"},
		Response: verify.RecordedResponse{Status: 200, Headers: []verify.HeaderField{{Name: "x-request-id", Value: "r"}}, Body: verify.Body(`{"name":"x"}`)},
	})
	if !r.OK() {
		t.Fatalf("expected decoded segment to match, got %+v", r.Violations)
	}
}

func TestNew_UndeclaredPathParam(t *testing.T) {
	c := usersContract("")
	c.Endpoints[0].Request.PathParams = nil
	_, err := verify.New(c)
	if !errors.Is(err, verify.ErrUndeclaredPathParam) {
		t.Fatalf("expected ErrUndeclaredPathParam, got %v", err)
	}
}

func TestNew_ShapeError(t *testing.T) {
	c := usersContract("")
	c.Endpoints[0].Responses[0].Body.Type = apicontract.Reference("Missing")
	_, err := verify.New(c)
	if !errors.Is(err, apicontract.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
}

func TestReport_JSON(t *testing.T) {
	v := mustVerifier(t, usersContract(""))
	in, err := verify.DecodeInteraction([]byte(`{
		"request": {"method": "GET", "path": "/users/abc", "headers": []},
		"response": {"status": 200, "headers": [{"name": "x-request-id", "value": "r"}], "body": {"name": "Bob"}}
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(string(in.Response.Body), `"Bob"`) {
		t.Fatalf("unexpected body %q", in.Response.Body)
	}
	r := run(t, v, in)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"violations":[{"type":"path_param_type_disparity","message":"Path param \"id\" type disparity: expected int32, got \"abc\"","type_disparities":["expected int32, got \"abc\""]}],"context":{"endpoint":"GetUser"}}`
	if string(b) != want {
		t.Fatalf("unexpected report:\n%s", b)
	}

	r = run(t, v, verify.Interaction{Request: verify.RecordedRequest{Method: "GET", Path: "/nowhere"}})
	b, _ = json.Marshal(r)
	if !strings.Contains(string(b), `"context":{"endpoint":""}`) {
		t.Fatalf("unexpected report:\n%s", b)
	}
}

func TestBody_StringForm(t *testing.T) {
	in, err := verify.DecodeInteraction([]byte(`{"request":{"method":"POST","path":"/users","body":"{\"name\":\"Bob\"}"},"response":{"status":201}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(in.Request.Body) != `{"name":"Bob"}` {
		t.Fatalf("unexpected body %q", in.Request.Body)
	}
	if in.Response.Body.Present() {
		t.Fatalf("expected absent response body")
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"body":"{\"name\":\"Bob\"}"`) {
		t.Fatalf("expected body to encode as a string:\n%s", b)
	}
}

func TestKinds_HaveTitles(t *testing.T) {
	if len(verify.Kinds) != 16 {
		t.Fatalf("expected 16 kinds, got %d", len(verify.Kinds))
	}
	disparities := 0
	for _, k := range verify.Kinds {
		if k.Title() == string(k) {
			t.Fatalf("kind %s has no title", k)
		}
		if k.IsTypeDisparity() {
			disparities++
		}
	}
	if disparities != 6 {
		t.Fatalf("expected 6 disparity kinds, got %d", disparities)
	}
}
