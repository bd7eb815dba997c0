package openapi2

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/apicontract/internal/ordered"
)

// Document is a Swagger 2.0 document.
type Document struct {
	Swagger             string                        `json:"swagger" yaml:"swagger"`
	Info                Info                          `json:"info" yaml:"info"`
	Consumes            []string                      `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces            []string                      `json:"produces,omitempty" yaml:"produces,omitempty"`
	Paths               *ordered.Map[*PathItem]       `json:"paths" yaml:"paths"`
	Definitions         *ordered.Map[*Schema]         `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	SecurityDefinitions *ordered.Map[*SecurityScheme] `json:"securityDefinitions,omitempty" yaml:"securityDefinitions,omitempty"`
	Security            []map[string][]string         `json:"security,omitempty" yaml:"security,omitempty"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
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
	Responses   *ordered.Map[*Response] `json:"responses" yaml:"responses"`
}

// Parameter is a path, query, header or body parameter. Body parameters
// carry Schema; the others carry a flat type.
type Parameter struct {
	Name             string  `json:"name" yaml:"name"`
	In               string  `json:"in" yaml:"in"`
	Description      string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required         bool    `json:"required" yaml:"required"`
	Schema           *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Type             string  `json:"type,omitempty" yaml:"type,omitempty"`
	Format           string  `json:"format,omitempty" yaml:"format,omitempty"`
	Enum             []any   `json:"enum,omitempty" yaml:"enum,omitempty"`
	CollectionFormat string  `json:"collectionFormat,omitempty" yaml:"collectionFormat,omitempty"`
	Items            *Items  `json:"items,omitempty" yaml:"items,omitempty"`
}

// Items describes the elements of an array parameter or header.
type Items struct {
	Type   string `json:"type" yaml:"type"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum   []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items  *Items `json:"items,omitempty" yaml:"items,omitempty"`
}

type Response struct {
	Description string                `json:"description" yaml:"description"`
	Headers     *ordered.Map[*Header] `json:"headers,omitempty" yaml:"headers,omitempty"`
	Schema      *Schema               `json:"schema,omitempty" yaml:"schema,omitempty"`
}

type Header struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type" yaml:"type"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum        []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items       *Items `json:"items,omitempty" yaml:"items,omitempty"`
}

type Schema struct {
	Ref         string                `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string                `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string                `json:"format,omitempty" yaml:"format,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []any                 `json:"enum,omitempty" yaml:"enum,omitempty"`
	Properties  *ordered.Map[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string              `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *Schema               `json:"items,omitempty" yaml:"items,omitempty"`
	AllOf       []*Schema             `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	XNullable   bool                  `json:"x-nullable,omitempty" yaml:"x-nullable,omitempty"`
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
