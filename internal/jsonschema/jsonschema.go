package jsonschema

// Schema represents the structure of JSON Schema used for describing tool
// parameters. It follows the JSON Schema standard, supporting the subset of
// keywords needed for function-calling catalogs: an object type with named,
// typed properties, a required list, and an additionalProperties switch.
// Tool authors declare these by hand; the dispatcher validates incoming
// arguments against them before a handler runs.
type Schema struct {
	// Type specifies the data type (e.g. "object", "string", "number").
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitzero"`
	// Properties of the arguments, each with its own schema.
	Properties map[string]*Schema `json:"properties,omitzero"`
	// AdditionalProperties controls whether properties not defined in
	// Properties are allowed.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values for the parameter.
	Enum []any `json:"enum,omitempty"`
}

// Object builds an object schema from named property schemas and the list of
// required property names. additionalProperties is always false: the model
// must not invent arguments the tool does not declare. A nil properties map
// yields the no-argument descriptor, with properties and required serialized
// as empty rather than omitted.
func Object(properties map[string]*Schema, required ...string) *Schema {
	if properties == nil {
		properties = map[string]*Schema{}
	}
	if required == nil {
		required = []string{}
	}
	return &Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: false,
	}
}

// String builds a string property schema with the given description.
func String(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}
