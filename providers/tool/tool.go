package tool

import (
	"context"
	"fmt"

	"github.com/leofalp/agentcli/internal/jsonschema"
	"github.com/leofalp/agentcli/providers/ai"
)

// Args is the decoded argument mapping supplied by the model for one tool
// call. Values are plain JSON-decoded Go values (string, float64, bool,
// map, slice, nil).
type Args map[string]any

// String returns the value for key as a string. It fails when the key is
// absent or holds a non-string value, so handlers never see a type they did
// not declare.
func (a Args) String(key string) (string, error) {
	value, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing required argument '%s'", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("argument '%s' must be a string, got %T", key, value)
	}
	return s, nil
}

// Tool binds a name and description to a handler function together with the
// JSON Schema the model's arguments are validated against. Dispatch is an
// explicit name→handler mapping: there is no reflection-based argument
// binding, and the schema's Required/Properties lists are the single source
// of truth for which arguments a handler may receive.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Handler     func(ctx context.Context, args Args) (string, error)
}

// Info returns the [ai.ToolDescription] used to advertise this tool to an
// AI provider.
func (t *Tool) Info() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Call validates args against the tool's parameter schema and invokes the
// handler. Validation enforces the schema contract the model was shown:
// every required property must be present, and no property outside the
// declared set is accepted (additionalProperties is always false for the
// built-in tools).
func (t *Tool) Call(ctx context.Context, args Args) (string, error) {
	if err := t.validate(args); err != nil {
		return "", err
	}
	return t.Handler(ctx, args)
}

// validate checks args against Parameters. A nil schema means the tool takes
// no arguments at all.
func (t *Tool) validate(args Args) error {
	if t.Parameters == nil {
		if len(args) > 0 {
			return fmt.Errorf("tool takes no arguments")
		}
		return nil
	}

	for _, required := range t.Parameters.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required argument '%s'", required)
		}
	}

	for name, value := range args {
		property, ok := t.Parameters.Properties[name]
		if !ok {
			return fmt.Errorf("unexpected argument '%s'", name)
		}
		if property.Type == "string" {
			if _, ok := value.(string); !ok {
				return fmt.Errorf("argument '%s' must be a string, got %T", name, value)
			}
		}
	}

	return nil
}
