package openapi2_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/openapi2"
)

func normalize(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func usersContract(strategy apicontract.QueryArrayStrategy) *apicontract.Contract {
	return &apicontract.Contract{
		Name:    "Users",
		Config:  apicontract.Config{QueryArraySerialization: strategy},
		Types: []apicontract.NamedType{
			{Name: "User", Def: apicontract.TypeDef{Description: "a user", Type: apicontract.Object(
				apicontract.Prop("id", apicontract.String()),
				apicontract.OptionalProp("age", apicontract.Int32()),
			)}},
		},
		Security: &apicontract.SecurityHeader{Name: "x-auth-token", Type: apicontract.String()},
		Endpoints: []apicontract.Endpoint{{
			Name:   "GetUser",
			Method: apicontract.MethodGet,
			Path:   "/users/:id",
			Request: &apicontract.Request{
				PathParams:  []apicontract.PathParam{{Name: "id", Type: apicontract.String()}},
				QueryParams: []apicontract.QueryParam{{Name: "tags", Type: apicontract.Array(apicontract.String()), Optional: true}},
			},
			Responses: []apicontract.Response{{
				Status: 200,
				Body:   &apicontract.Body{Type: apicontract.Union(apicontract.Reference("User"), apicontract.Null())},
			}},
		}},
	}
}

func TestGenerate_Document(t *testing.T) {
	doc, err := openapi2.Generate(usersContract(apicontract.QueryArrayAmpersand))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got := normalize(t, doc)
	want := normalize(t, map[string]any{
		"swagger":  "2.0",
		"info":     map[string]any{"title": "Users", "version": "0.0.0"},
		"consumes": []any{"application/json"},
		"produces": []any{"application/json"},
		"paths": map[string]any{
			"/users/{id}": map[string]any{
				"get": map[string]any{
					"operationId": "GetUser",
					"parameters": []any{
						map[string]any{"name": "id", "in": "path", "required": true, "type": "string"},
						map[string]any{"name": "tags", "in": "query", "required": false, "type": "array", "collectionFormat": "multi", "items": map[string]any{"type": "string"}},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "200 response",
							"schema":      map[string]any{"x-nullable": true, "allOf": []any{map[string]any{"$ref": "#/definitions/User"}}},
						},
					},
				},
			},
		},
		"definitions": map[string]any{
			"User": map[string]any{
				"type":        "object",
				"description": "a user",
				"properties": map[string]any{
					"id":  map[string]any{"type": "string"},
					"age": map[string]any{"type": "integer", "format": "int32"},
				},
				"required": []any{"id"},
			},
		},
		"securityDefinitions": map[string]any{
			"SecurityHeader": map[string]any{"type": "apiKey", "in": "header", "name": "x-auth-token"},
		},
		"security": []any{map[string]any{"SecurityHeader": []any{}}},
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected document:\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_CommaCollectionFormat(t *testing.T) {
	doc, err := openapi2.Generate(usersContract(apicontract.QueryArrayComma))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	item, _ := doc.Paths.Get("/users/{id}")
	if got := item.Get.Parameters[1].CollectionFormat; got != "csv" {
		t.Fatalf("expected csv, got %q", got)
	}
}

func TestGenerate_RequestBodyParameter(t *testing.T) {
	c := usersContract("")
	c.Endpoints[0].Method = apicontract.MethodPost
	c.Endpoints[0].Request.Body = &apicontract.Body{Type: apicontract.Reference("User")}
	doc, err := openapi2.Generate(c)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	item, _ := doc.Paths.Get("/users/{id}")
	if item.Post == nil || item.Get != nil {
		t.Fatalf("expected a post operation only")
	}
	params := item.Post.Parameters
	last := params[len(params)-1]
	if last.In != "body" || last.Name != "Body" || !last.Required || last.Schema.Ref != "#/definitions/User" {
		t.Fatalf("unexpected body parameter %+v", last)
	}
}

func TestGenerate_HeterogeneousUnionUnsupported(t *testing.T) {
	c := &apicontract.Contract{
		Name: "Pets",
		Types: []apicontract.NamedType{
			{Name: "Id", Def: apicontract.TypeDef{Type: apicontract.Union(apicontract.String(), apicontract.Int64())}},
		},
	}
	_, err := openapi2.Generate(c)
	if !errors.Is(err, apicontract.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !apicontract.IsShapeError(err) {
		t.Fatalf("expected a shape error, got %T", err)
	}
}

func TestGenerate_LiteralUnionEnum(t *testing.T) {
	c := &apicontract.Contract{
		Name: "Pets",
		Types: []apicontract.NamedType{
			{Name: "Kind", Def: apicontract.TypeDef{Type: apicontract.Union(apicontract.StringLiteral("cat"), apicontract.StringLiteral("dog"), apicontract.Null())}},
		},
	}
	doc, err := openapi2.Generate(c)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	s, _ := doc.Definitions.Get("Kind")
	got := normalize(t, s)
	want := normalize(t, map[string]any{"type": "string", "enum": []any{"cat", "dog", nil}, "x-nullable": true})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected schema:\n got=%v\nwant=%v", got, want)
	}
}

func TestGenerate_ObjectQueryParamUnsupported(t *testing.T) {
	c := usersContract("")
	c.Endpoints[0].Request.QueryParams = []apicontract.QueryParam{{Name: "filter", Type: apicontract.Reference("User")}}
	_, err := openapi2.Generate(c)
	if !errors.Is(err, apicontract.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "filter") {
		t.Fatalf("expected error to name the parameter: %v", err)
	}
}

func TestDocument_YAML(t *testing.T) {
	doc, err := openapi2.Generate(usersContract(""))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := doc.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	out := string(b)
	if !strings.HasPrefix(out, "swagger: \"2.0\"\n") {
		t.Fatalf("unexpected yaml head:\n%s", out)
	}
	// ordered maps keep declaration order
	if strings.Index(out, "id:") > strings.Index(out, "age:") {
		t.Fatalf("expected id before age:\n%s", out)
	}
}
