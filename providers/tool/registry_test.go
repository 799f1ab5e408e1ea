package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/agentcli/internal/jsonschema"
)

func echoTool() *Tool {
	return &Tool{
		Name:        "echo",
		Description: "Echo the input back.",
		Parameters: jsonschema.Object(map[string]*jsonschema.Schema{
			"text": jsonschema.String("Text to echo."),
		}, "text"),
		Handler: func(_ context.Context, args Args) (string, error) {
			text, err := args.String("text")
			if err != nil {
				return "", err
			}
			return text, nil
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(echoTool())

	got := registry.Dispatch(context.Background(), "echo", Args{"text": "hello"})
	if got != "hello" {
		t.Errorf("Dispatch = %q, want %q", got, "hello")
	}
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	registry := NewRegistry()

	got := registry.Dispatch(context.Background(), "nope", Args{})
	if got != "Error: unknown tool 'nope'" {
		t.Errorf("Dispatch = %q, want unknown-tool error", got)
	}
}

func TestRegistryDispatchMissingArgument(t *testing.T) {
	registry := NewRegistry(echoTool())

	got := registry.Dispatch(context.Background(), "echo", Args{})
	if !strings.HasPrefix(got, "Error calling 'echo':") {
		t.Errorf("Dispatch = %q, want an Error calling prefix", got)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("Dispatch = %q, want mention of the missing argument", got)
	}
}

func TestRegistryDispatchUnexpectedArgument(t *testing.T) {
	registry := NewRegistry(echoTool())

	got := registry.Dispatch(context.Background(), "echo", Args{"text": "hi", "volume": "11"})
	if !strings.Contains(got, "unexpected argument 'volume'") {
		t.Errorf("Dispatch = %q, want unexpected-argument error", got)
	}
}

func TestRegistryDispatchHandlerError(t *testing.T) {
	registry := NewRegistry(&Tool{
		Name:        "broken",
		Description: "Always fails.",
		Handler: func(_ context.Context, _ Args) (string, error) {
			return "", errors.New("backend unavailable")
		},
	})

	got := registry.Dispatch(context.Background(), "broken", Args{})
	if got != "Error calling 'broken': backend unavailable" {
		t.Errorf("Dispatch = %q, want handler error text", got)
	}
}

func TestRegistryDispatchRecoversPanic(t *testing.T) {
	registry := NewRegistry(&Tool{
		Name:        "panicky",
		Description: "Always panics.",
		Handler: func(_ context.Context, _ Args) (string, error) {
			panic("boom")
		},
	})

	got := registry.Dispatch(context.Background(), "panicky", Args{})
	if !strings.Contains(got, "boom") {
		t.Errorf("Dispatch = %q, want recovered panic message", got)
	}
	if !strings.HasPrefix(got, "Error calling 'panicky':") {
		t.Errorf("Dispatch = %q, want an Error calling prefix", got)
	}
}

func TestRegistryCaseInsensitiveLookup(t *testing.T) {
	registry := NewRegistry(echoTool())

	if _, ok := registry.Get("ECHO"); !ok {
		t.Error("Get should be case-insensitive")
	}
}

func TestRegistryDescriptionsOrder(t *testing.T) {
	first := echoTool()
	second := &Tool{Name: "second", Description: "Second tool.", Handler: func(_ context.Context, _ Args) (string, error) { return "", nil }}
	third := &Tool{Name: "third", Description: "Third tool.", Handler: func(_ context.Context, _ Args) (string, error) { return "", nil }}

	registry := NewRegistry(first, second, third)

	descriptions := registry.Descriptions()
	if len(descriptions) != 3 {
		t.Fatalf("Descriptions length = %d, want 3", len(descriptions))
	}

	want := []string{"echo", "second", "third"}
	for i, description := range descriptions {
		if description.Name != want[i] {
			t.Errorf("Descriptions[%d].Name = %q, want %q", i, description.Name, want[i])
		}
	}
}

func TestRegistrySize(t *testing.T) {
	registry := NewRegistry(echoTool())
	if registry.Size() != 1 {
		t.Errorf("Size = %d, want 1", registry.Size())
	}
}

func TestArgsString(t *testing.T) {
	args := Args{"text": "hello", "count": 3.0}

	if got, err := args.String("text"); err != nil || got != "hello" {
		t.Errorf("String(text) = %q, %v; want hello, nil", got, err)
	}

	if _, err := args.String("missing"); err == nil {
		t.Error("String(missing) should fail")
	}

	if _, err := args.String("count"); err == nil {
		t.Error("String(count) should fail for non-string value")
	}
}
