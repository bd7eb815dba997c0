package verify

import "github.com/reoring/apicontract/i18n"

// Kind is the stable machine-readable name of a violation.
type Kind string

const (
	KindUndefinedEndpoint             Kind = "undefined_endpoint"
	KindUndefinedEndpointResponse     Kind = "undefined_endpoint_response"
	KindRequiredRequestHeaderMissing  Kind = "required_request_header_missing"
	KindUndefinedRequestHeader        Kind = "undefined_request_header"
	KindRequestHeaderTypeDisparity    Kind = "request_header_type_disparity"
	KindPathParamTypeDisparity        Kind = "path_param_type_disparity"
	KindRequiredQueryParamMissing     Kind = "required_query_param_missing"
	KindUndefinedQueryParam           Kind = "undefined_query_param"
	KindQueryParamTypeDisparity       Kind = "query_param_type_disparity"
	KindUndefinedRequestBody          Kind = "undefined_request_body"
	KindRequestBodyTypeDisparity      Kind = "request_body_type_disparity"
	KindRequiredResponseHeaderMissing Kind = "required_response_header_missing"
	KindUndefinedResponseHeader       Kind = "undefined_response_header"
	KindResponseHeaderTypeDisparity   Kind = "response_header_type_disparity"
	KindUndefinedResponseBody         Kind = "undefined_response_body"
	KindResponseBodyTypeDisparity     Kind = "response_body_type_disparity"
)

// Kinds lists every violation kind in report order.
var Kinds = []Kind{
	KindUndefinedEndpoint,
	KindUndefinedEndpointResponse,
	KindRequiredRequestHeaderMissing,
	KindUndefinedRequestHeader,
	KindRequestHeaderTypeDisparity,
	KindPathParamTypeDisparity,
	KindRequiredQueryParamMissing,
	KindUndefinedQueryParam,
	KindQueryParamTypeDisparity,
	KindUndefinedRequestBody,
	KindRequestBodyTypeDisparity,
	KindRequiredResponseHeaderMissing,
	KindUndefinedResponseHeader,
	KindResponseHeaderTypeDisparity,
	KindUndefinedResponseBody,
	KindResponseBodyTypeDisparity,
}

// IsTypeDisparity reports whether violations of kind k carry disparity lines.
func (k Kind) IsTypeDisparity() bool {
	switch k {
	case KindRequestHeaderTypeDisparity, KindPathParamTypeDisparity, KindQueryParamTypeDisparity,
		KindRequestBodyTypeDisparity, KindResponseHeaderTypeDisparity, KindResponseBodyTypeDisparity:
		return true
	}
	return false
}

// Title returns the localized human-readable title of k.
func (k Kind) Title() string { return i18n.T(string(k), nil) }

// Violation is one way an interaction departs from the contract.
type Violation struct {
	Kind            Kind     `json:"type"`
	Message         string   `json:"message"`
	TypeDisparities []string `json:"type_disparities,omitempty"`
}

// Report is the outcome of verifying one interaction.
type Report struct {
	Violations []Violation `json:"violations"`
	Context    Context     `json:"context"`
}

type Context struct {
	// Endpoint is the matched endpoint name, or "" when none matched.
	Endpoint string `json:"endpoint"`
}

// OK reports whether the interaction satisfied the contract.
func (r Report) OK() bool { return len(r.Violations) == 0 }

// Count returns the number of violations of kind k.
func (r Report) Count(k Kind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == k {
			n++
		}
	}
	return n
}

func (r *Report) add(k Kind, msg string) {
	r.Violations = append(r.Violations, Violation{Kind: k, Message: msg})
}

func (r *Report) addDisparity(k Kind, msg string, disparities []string) {
	r.Violations = append(r.Violations, Violation{Kind: k, Message: msg, TypeDisparities: disparities})
}
