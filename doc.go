// Package apicontract models API contracts as typed endpoints over a table of
// named types and resolves the type algebra those contracts use.
//
// - Type: a closed set of variants (scalars, literals, objects, arrays, unions,
//   intersections, references)
// - TypeTable: append-only, insertion-ordered registry of named types, sealed after build
// - Resolution: Dereference, PossibleRootTypes, InferDiscriminator,
//   ResolveIntersectionToNarrowestType, DoesInterfaceEvaluateToNever
// - Contract loading from JSON or YAML
//
// Design policy:
// - Keep the model and resolution engine in the root package; emitters live in
//   openapi2/, openapi3/ and jsonschema/, the verifier in verify/.
// - Malformed contracts fail with errors wrapping the Err* sentinels; observed
//   traffic mismatches are reported as verify.Violation values.
//
// Typical usage:
//
//  c, err := apicontract.DecodeContractYAML(data)
//  table, err := c.TypeTable()
//  roots, err := apicontract.PossibleRootTypes(apicontract.Reference("User"), table)
//
package apicontract
