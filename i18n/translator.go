package i18n

import "strings"

// Translator retrieves localized titles for violation kinds.
// data provides optional metadata to embed in the title (for example,
// "count").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		msg = ja[code]
	default: // "en"
		msg = en[code]
	}
	if msg == "" {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var en = map[string]string{
	"undefined_endpoint":               "endpoint not defined",
	"undefined_endpoint_response":      "response status not defined",
	"required_request_header_missing":  "required request header missing",
	"undefined_request_header":         "request header not defined",
	"request_header_type_disparity":    "request header type mismatch",
	"path_param_type_disparity":        "path parameter type mismatch",
	"required_query_param_missing":     "required query parameter missing",
	"undefined_query_param":            "query parameter not defined",
	"query_param_type_disparity":       "query parameter type mismatch",
	"undefined_request_body":           "request body not defined",
	"request_body_type_disparity":      "request body type mismatch",
	"required_response_header_missing": "required response header missing",
	"undefined_response_header":        "response header not defined",
	"response_header_type_disparity":   "response header type mismatch",
	"undefined_response_body":          "response body missing",
	"response_body_type_disparity":     "response body type mismatch",
	"summary_ok":                       "no violations",
	"summary_failed":                   "{count} violation(s)",
}

var ja = map[string]string{
	"undefined_endpoint":               "エンドポイントが定義されていません",
	"undefined_endpoint_response":      "レスポンスステータスが定義されていません",
	"required_request_header_missing":  "必須リクエストヘッダーがありません",
	"undefined_request_header":         "リクエストヘッダーが定義されていません",
	"request_header_type_disparity":    "リクエストヘッダーの型が一致しません",
	"path_param_type_disparity":        "パスパラメータの型が一致しません",
	"required_query_param_missing":     "必須クエリパラメータがありません",
	"undefined_query_param":            "クエリパラメータが定義されていません",
	"query_param_type_disparity":       "クエリパラメータの型が一致しません",
	"undefined_request_body":           "リクエストボディが定義されていません",
	"request_body_type_disparity":      "リクエストボディの型が一致しません",
	"required_response_header_missing": "必須レスポンスヘッダーがありません",
	"undefined_response_header":        "レスポンスヘッダーが定義されていません",
	"response_header_type_disparity":   "レスポンスヘッダーの型が一致しません",
	"undefined_response_body":          "レスポンスボディがありません",
	"response_body_type_disparity":     "レスポンスボディの型が一致しません",
	"summary_ok":                       "違反はありません",
	"summary_failed":                   "{count} 件の違反",
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
