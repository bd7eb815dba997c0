package jsonschema_test

import (
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/jsonschema"
)

func petTable(t *testing.T) *apicontract.TypeTable {
	t.Helper()
	table, err := apicontract.BuildTypeTable([]apicontract.NamedType{
		{Name: "Pet", Def: apicontract.TypeDef{Description: "a pet", Type: apicontract.Object(
			apicontract.Prop("name", apicontract.String()),
			apicontract.OptionalProp("age", apicontract.Int32()),
			apicontract.OptionalProp("born", apicontract.Date()),
			apicontract.OptionalProp("kind", apicontract.Union(apicontract.StringLiteral("cat"), apicontract.StringLiteral("dog"), apicontract.Null())),
		)}},
		{Name: "Owned", Def: apicontract.TypeDef{Type: apicontract.Intersection(
			apicontract.Reference("Pet"),
			apicontract.Object(apicontract.Prop("owner", apicontract.String())),
		)}},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return table
}

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

func TestProject_Object(t *testing.T) {
	table := petTable(t)
	s, err := jsonschema.Project(apicontract.Reference("Pet"), table, jsonschema.Closed)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if s.Ref != "#/definitions/Pet" {
		t.Fatalf("expected reference, got %+v", s)
	}

	def, _ := table.Get("Pet")
	s, err = jsonschema.Project(def.Type, table, jsonschema.Closed)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	got := normalize(t, s)
	want := normalize(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": -2147483648, "maximum": 2147483647},
			"born": map[string]any{"type": "string", "format": "date"},
			"kind": map[string]any{"enum": []any{"cat", "dog", nil}},
		},
		"required":             []any{"name"},
		"additionalProperties": false,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected schema:\n got=%v\nwant=%v", got, want)
	}
}

func TestValidator_ClosedRejectsUnknownProperties(t *testing.T) {
	table := petTable(t)
	v, err := jsonschema.Compile(apicontract.Reference("Pet"), table, jsonschema.Closed)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if lines := v.ValidateJSON([]byte(`{"name":"Tom","age":3,"kind":null}`)); len(lines) != 0 {
		t.Fatalf("expected pass, got %v", lines)
	}
	lines := v.ValidateJSON([]byte(`{"name":"Tom","color":"grey"}`))
	if len(lines) == 0 {
		t.Fatalf("expected unknown property to fail in closed mode")
	}
	open, err := jsonschema.Compile(apicontract.Reference("Pet"), table, jsonschema.Open)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if lines := open.ValidateJSON([]byte(`{"name":"Tom","color":"grey"}`)); len(lines) != 0 {
		t.Fatalf("expected open mode to tolerate unknown property, got %v", lines)
	}
}

func TestValidator_Lines(t *testing.T) {
	table := petTable(t)
	v, err := jsonschema.Compile(apicontract.Reference("Pet"), table, jsonschema.Closed)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	lines := v.ValidateJSON([]byte(`{"name":7,"age":4294967296,"born":"2020-13-45"}`))
	if len(lines) < 3 {
		t.Fatalf("expected a line per failure, got %v", lines)
	}
	for _, want := range []string{"#/name ", "#/age ", "#/born "} {
		found := false
		for _, l := range lines {
			if strings.HasPrefix(l, want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing line for %q in %v", want, lines)
		}
	}
}

func TestValidator_IntersectionInClosedMode(t *testing.T) {
	table := petTable(t)
	v, err := jsonschema.Compile(apicontract.Reference("Owned"), table, jsonschema.Closed)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if lines := v.ValidateJSON([]byte(`{"name":"Tom","owner":"Ann"}`)); len(lines) != 0 {
		t.Fatalf("expected merged object to accept both members' properties, got %v", lines)
	}
	if lines := v.ValidateJSON([]byte(`{"name":"Tom"}`)); len(lines) == 0 {
		t.Fatalf("expected missing owner to fail")
	}
}

func TestValidator_MalformedJSON(t *testing.T) {
	table := petTable(t)
	v, err := jsonschema.Compile(apicontract.String(), table, jsonschema.Open)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	lines := v.ValidateJSON([]byte(`{"name":`))
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "# invalid JSON") {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestGenerate(t *testing.T) {
	c := &apicontract.Contract{
		Name: "Pets",
		Types: []apicontract.NamedType{
			{Name: "Pet", Def: apicontract.TypeDef{Type: apicontract.Object(apicontract.Prop("name", apicontract.String()))}},
			{Name: "Pets", Def: apicontract.TypeDef{Type: apicontract.Array(apicontract.Reference("Pet"))}},
		},
	}
	doc, err := jsonschema.Generate(c)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"$schema":"http://json-schema.org/draft-07/schema#","definitions":{"Pet":{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]},"Pets":{"type":"array","items":{"$ref":"#/definitions/Pet"}}}}`
	if string(b) != want {
		t.Fatalf("unexpected document:\n%s", b)
	}
}
