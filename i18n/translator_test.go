package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("path_param_type_disparity", nil); msg != "path parameter type mismatch" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("path_param_type_disparity", nil); msg == "path parameter type mismatch" || msg == "" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeAndData(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
	if msg := T("summary_failed", map[string]string{"count": "3"}); msg != "3 violation(s)" {
		t.Fatalf("unexpected summary %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("undefined_endpoint", nil); msg != "X:undefined_endpoint" {
		t.Fatalf("unexpected %q", msg)
	}
	SetTranslator(nil)
	if msg := T("undefined_endpoint", nil); msg != "endpoint not defined" {
		t.Fatalf("expected reset to en, got %q", msg)
	}
}
