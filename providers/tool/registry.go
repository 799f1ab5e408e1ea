package tool

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/leofalp/agentcli/providers/ai"
)

// Registry manages a collection of tools with thread-safe operations and
// dispatches model-requested tool calls to them. All dispatch outcomes,
// success and failure alike, are normalized to a plain string, so the
// orchestrator can always fold the result back into the conversation for the
// model to react to.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string // registration order, preserved for the advertised catalog
}

// NewRegistry creates a registry pre-populated with the given tools.
// Tool names are stored lowercase; lookups are case-insensitive.
func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{
		tools: make(map[string]*Tool),
	}
	r.Add(tools...)
	return r
}

// Add registers tools. A tool with an already-registered name replaces the
// previous entry while keeping its original catalog position.
func (r *Registry) Add(tools ...*Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		name := strings.ToLower(t.Name)
		if _, exists := r.tools[name]; !exists {
			r.order = append(r.order, name)
		}
		r.tools[name] = t
	}
}

// Get retrieves a tool by name (case-insensitive).
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, exists := r.tools[strings.ToLower(name)]
	return t, exists
}

// Size returns the number of registered tools.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Descriptions returns the tool-schema catalog advertised to the model, in
// registration order.
func (r *Registry) Descriptions() []ai.ToolDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptions := make([]ai.ToolDescription, 0, len(r.order))
	for _, name := range r.order {
		descriptions = append(descriptions, r.tools[name].Info())
	}
	return descriptions
}

// Dispatch invokes the named tool with the supplied arguments and returns a
// display-safe string result. It never returns an error and never panics:
//
//   - an unregistered name yields "Error: unknown tool '<name>'" without any
//     call attempt;
//   - argument validation failures, handler errors, and handler panics yield
//     "Error calling '<name>': <message>";
//   - on success the handler's result is returned unmodified.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (result string) {
	t, ok := r.Get(name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'", name)
	}

	// A panicking handler must not take the turn down with it; the failure is
	// folded into the result string like any other tool error.
	defer func() {
		if recovered := recover(); recovered != nil {
			result = fmt.Sprintf("Error calling '%s': %v", name, recovered)
		}
	}()

	output, err := t.Call(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error calling '%s': %v", name, err)
	}
	return output
}
