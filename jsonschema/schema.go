package jsonschema

import "github.com/reoring/apicontract/internal/ordered"

// Draft7 is the meta-schema URI written into generated documents.
const Draft7 = "http://json-schema.org/draft-07/schema#"

// Schema is the subset of JSON Schema (draft-07) that contract types project to.
// Property and definition maps keep declaration order.
type Schema struct {
	SchemaURI   string `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Core
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum   []any  `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	// Object
	Properties           *ordered.Map[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string              `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties *bool                 `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`

	Definitions *ordered.Map[*Schema] `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}
