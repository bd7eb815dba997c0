package openapi3

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/apicontract/internal/ordered"
)

// Document is an OpenAPI 3.0 document.
type Document struct {
	OpenAPI    string                  `json:"openapi" yaml:"openapi"`
	Info       Info                    `json:"info" yaml:"info"`
	Paths      *ordered.Map[*PathItem] `json:"paths" yaml:"paths"`
	Components *Components             `json:"components,omitempty" yaml:"components,omitempty"`
	Security   []map[string][]string   `json:"security,omitempty" yaml:"security,omitempty"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

type Components struct {
	Schemas         *ordered.Map[*Schema]         `json:"schemas,omitempty" yaml:"schemas,omitempty"`
	SecuritySchemes *ordered.Map[*SecurityScheme] `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
}

type PathItem struct {
	Get    *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put    *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post   *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch  *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
}

type Operation struct {
	Tags        []string                `json:"tags,omitempty" yaml:"tags,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                  `json:"operationId" yaml:"operationId"`
	Parameters  []*Parameter            `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody            `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   *ordered.Map[*Response] `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name        string                 `json:"name" yaml:"name"`
	In          string                 `json:"in" yaml:"in"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Style       string                 `json:"style,omitempty" yaml:"style,omitempty"`
	Explode     *bool                  `json:"explode,omitempty" yaml:"explode,omitempty"`
	Required    bool                   `json:"required" yaml:"required"`
	Schema      *Schema                `json:"schema" yaml:"schema"`
	Examples    *ordered.Map[*Example] `json:"examples,omitempty" yaml:"examples,omitempty"`
}

type Example struct {
	Value any `json:"value" yaml:"value"`
}

type RequestBody struct {
	Content  *ordered.Map[*MediaType] `json:"content" yaml:"content"`
	Required bool                     `json:"required" yaml:"required"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string                   `json:"description" yaml:"description"`
	Headers     *ordered.Map[*Header]    `json:"headers,omitempty" yaml:"headers,omitempty"`
	Content     *ordered.Map[*MediaType] `json:"content,omitempty" yaml:"content,omitempty"`
}

type Header struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required" yaml:"required"`
	Schema      *Schema `json:"schema" yaml:"schema"`
}

// Schema is a schema object or, when Ref is set, a reference object. Nullable
// may sit beside Ref.
type Schema struct {
	Ref           string                `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type          string                `json:"type,omitempty" yaml:"type,omitempty"`
	Format        string                `json:"format,omitempty" yaml:"format,omitempty"`
	Description   string                `json:"description,omitempty" yaml:"description,omitempty"`
	Enum          []any                 `json:"enum,omitempty" yaml:"enum,omitempty"`
	Properties    *ordered.Map[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required      []string              `json:"required,omitempty" yaml:"required,omitempty"`
	Items         *Schema               `json:"items,omitempty" yaml:"items,omitempty"`
	OneOf         []*Schema             `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AllOf         []*Schema             `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	Discriminator *Discriminator        `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Nullable      bool                  `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

type Discriminator struct {
	PropertyName string                `json:"propertyName" yaml:"propertyName"`
	Mapping      *ordered.Map[string] `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

type SecurityScheme struct {
	Type        string `json:"type" yaml:"type"`
	In          string `json:"in" yaml:"in"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) { return json.MarshalIndent(d, "", "  ") }

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) { return yaml.Marshal(d) }
