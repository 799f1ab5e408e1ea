// Package jsonschema defines the JSON Schema document type used to describe
// tool parameters to LLM providers, together with small constructors for the
// hand-declared schemas of the built-in tools.
package jsonschema
