package strval_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/strval"
)

func table(t *testing.T) *apicontract.TypeTable {
	t.Helper()
	tt, err := apicontract.BuildTypeTable([]apicontract.NamedType{
		{Name: "Id", Def: apicontract.TypeDef{Type: apicontract.Union(apicontract.Int64(), apicontract.StringLiteral("me"))}},
		{Name: "Filter", Def: apicontract.TypeDef{Type: apicontract.Object(
			apicontract.Prop("name", apicontract.String()),
			apicontract.OptionalProp("age", apicontract.Int32()),
		)}},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return tt
}

func TestValidateText_Scalars(t *testing.T) {
	tt := table(t)
	cases := []struct {
		name string
		typ  apicontract.Type
		text string
		ok   bool
	}{
		{"bool true", apicontract.Boolean(), "true", true},
		{"bool casing", apicontract.Boolean(), "True", false},
		{"bool literal", apicontract.BooleanLiteral(false), "false", true},
		{"bool literal other", apicontract.BooleanLiteral(false), "true", false},
		{"string", apicontract.String(), "", true},
		{"string literal", apicontract.StringLiteral("a"), "a", true},
		{"string literal other", apicontract.StringLiteral("a"), "b", false},
		{"int32", apicontract.Int32(), "-42", true},
		{"int32 plus", apicontract.Int32(), "+42", true},
		{"int32 overflow", apicontract.Int32(), "2147483648", false},
		{"int64 fits", apicontract.Int64(), "2147483648", true},
		{"int64 overflow", apicontract.Int64(), "9223372036854775808", false},
		{"int decimal", apicontract.Int64(), "1.0", false},
		{"int literal", apicontract.IntLiteral(7), "7", true},
		{"int literal other", apicontract.IntLiteral(7), "8", false},
		{"float", apicontract.Float(), "1.5e3", true},
		{"float leading dot", apicontract.Double(), ".5", true},
		{"float nan", apicontract.Double(), "NaN", false},
		{"float overflow", apicontract.Float(), "1e39", false},
		{"double range", apicontract.Double(), "1e39", true},
		{"float literal", apicontract.FloatLiteral(1.5), "1.50", true},
		{"float literal other", apicontract.FloatLiteral(1.5), "1.6", false},
		{"date", apicontract.Date(), "2024-02-29", true},
		{"date calendar", apicontract.Date(), "2023-02-29", false},
		{"date shape", apicontract.Date(), "2024-2-9", false},
		{"date-time", apicontract.DateTime(), "2024-02-29T10:00:00Z", true},
		{"date-time fraction", apicontract.DateTime(), "2024-02-29T10:00:00.123+09:00", true},
		{"date-time no zone", apicontract.DateTime(), "2024-02-29T10:00:00", false},
		{"nullable empty", apicontract.Union(apicontract.Int32(), apicontract.Null()), "", true},
		{"nullable null", apicontract.Union(apicontract.Int32(), apicontract.Null()), "null", true},
		{"reference union", apicontract.Reference("Id"), "me", true},
		{"reference union number", apicontract.Reference("Id"), "12", true},
		{"reference union other", apicontract.Reference("Id"), "you", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgs, err := strval.ValidateText(tt, tc.text, tc.typ)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if ok := len(msgs) == 0; ok != tc.ok {
				t.Fatalf("ok=%v want %v (messages %v)", ok, tc.ok, msgs)
			}
		})
	}
}

func TestValidateText_UnionReportsEveryBranch(t *testing.T) {
	tt := table(t)
	msgs, err := strval.ValidateText(tt, "you", apicontract.Reference("Id"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{`expected int64, got "you"`, `expected "me", got "you"`}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("got %v want %v", msgs, want)
	}
}

func TestValidateText_OutOfRangeMessage(t *testing.T) {
	msgs, err := strval.ValidateText(table(t), "2147483648", apicontract.Int32())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "out of range for int32") {
		t.Fatalf("unexpected messages %v", msgs)
	}
}

func TestValidate_Arrays(t *testing.T) {
	tt := table(t)
	ints := apicontract.Array(apicontract.Int32())

	if msgs, _ := strval.Validate(tt, strval.List("1", "2"), ints); len(msgs) != 0 {
		t.Fatalf("expected pass, got %v", msgs)
	}
	if msgs, _ := strval.Validate(tt, strval.Text("3"), ints); len(msgs) != 0 {
		t.Fatalf("expected single text to count as one element, got %v", msgs)
	}
	msgs, err := strval.Validate(tt, strval.List("1", "x", "y"), ints)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{`[1] expected int32, got "x"`, `[2] expected int32, got "y"`}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("got %v want %v", msgs, want)
	}

	msgs, _ = strval.Validate(tt, strval.List("1"), apicontract.Array(ints))
	if len(msgs) != 1 || !strings.Contains(msgs[0], "nested arrays") {
		t.Fatalf("expected nested array disparity, got %v", msgs)
	}

	msgs, _ = strval.Validate(tt, strval.List("1", "2"), apicontract.Int32())
	if len(msgs) != 1 || !strings.Contains(msgs[0], "list of 2 values") {
		t.Fatalf("expected list against scalar to fail, got %v", msgs)
	}
}

func TestValidate_DeepObject(t *testing.T) {
	tt := table(t)
	filter := apicontract.Reference("Filter")

	ok := strval.Fields(
		strval.Field{Name: "name", Value: strval.Text("bob")},
		strval.Field{Name: "age", Value: strval.Text("30")},
	)
	if msgs, _ := strval.Validate(tt, ok, filter); len(msgs) != 0 {
		t.Fatalf("expected pass, got %v", msgs)
	}

	bad := strval.Fields(
		strval.Field{Name: "age", Value: strval.Text("old")},
		strval.Field{Name: "color", Value: strval.Text("red")},
	)
	msgs, err := strval.Validate(tt, bad, filter)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{`missing required field "name"`, `age: expected int32, got "old"`, `unknown field "color"`}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("got %v want %v", msgs, want)
	}

	msgs, _ = strval.Validate(tt, strval.Text("bob"), filter)
	if len(msgs) != 1 {
		t.Fatalf("expected text against object to fail, got %v", msgs)
	}
}

func TestValidate_UnknownReference(t *testing.T) {
	if _, err := strval.ValidateText(table(t), "1", apicontract.Reference("Missing")); err == nil {
		t.Fatalf("expected error for unknown reference")
	}
}
