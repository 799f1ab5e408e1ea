package agent

import (
	"errors"

	"github.com/leofalp/agentcli/providers/memory"
	"github.com/leofalp/agentcli/providers/tool"
)

// Option configures an Agent during construction.
type Option func(a *Agent, middlewares *[]MiddlewareConfig) error

// WithModel sets the model identifier sent with every request.
func WithModel(model string) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		a.model = model
		return nil
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		a.systemPrompt = prompt
		return nil
	}
}

// WithMaxToolRounds caps the number of tool-call/response cycles per turn.
func WithMaxToolRounds(rounds int) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		if rounds <= 0 {
			return errors.New("max tool rounds must be positive")
		}
		a.maxToolRounds = rounds
		return nil
	}
}

// WithMemory replaces the default in-memory conversation log.
func WithMemory(provider memory.Provider) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		if provider == nil {
			return errors.New("memory provider must not be nil")
		}
		a.memory = provider
		return nil
	}
}

// WithTools registers tools with the agent's registry.
func WithTools(tools ...*tool.Tool) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		a.tools.Add(tools...)
		return nil
	}
}

// WithRegistry replaces the agent's tool registry entirely.
func WithRegistry(registry *tool.Registry) Option {
	return func(a *Agent, _ *[]MiddlewareConfig) error {
		if registry == nil {
			return errors.New("registry must not be nil")
		}
		a.tools = registry
		return nil
	}
}

// WithMiddlewares appends middlewares to the send/stream chains, applied
// outermost-first in the order given.
func WithMiddlewares(configs ...MiddlewareConfig) Option {
	return func(_ *Agent, middlewares *[]MiddlewareConfig) error {
		for _, config := range configs {
			if config.Send == nil {
				return errors.New("middleware config requires a Send middleware")
			}
		}
		*middlewares = append(*middlewares, configs...)
		return nil
	}
}
