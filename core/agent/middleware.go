package agent

import (
	"context"

	"github.com/leofalp/agentcli/providers/ai"
)

// SendFunc is a function that sends a chat request to the LLM provider and
// returns the completed response. It is the base unit threaded through the
// send middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// StreamFunc is a function that sends a chat request to the LLM provider and
// returns a ChatStream for real-time token delivery. It is the base unit
// threaded through the stream middleware chain.
type StreamFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error)

// Middleware intercepts and optionally transforms LLM send requests and
// responses. Each Middleware receives the next SendFunc in the chain and
// returns a new SendFunc that wraps it. Middlewares are applied
// outermost-first: the first middleware in the slice is the outermost wrapper.
type Middleware func(next SendFunc) SendFunc

// StreamMiddleware is the streaming counterpart of Middleware. It intercepts
// stream requests and may wrap the returned ChatStream to observe or
// transform the event sequence.
type StreamMiddleware func(next StreamFunc) StreamFunc

// MiddlewareConfig pairs a send middleware with its optional streaming
// counterpart. The Send field is required. The Stream field is optional: a
// nil value means streaming calls bypass this middleware entry entirely (the
// stream chain falls through to the next entry).
type MiddlewareConfig struct {
	// Send is the middleware applied to the synchronous tool-call rounds.
	// Required: a nil Send causes New to return an error.
	Send Middleware

	// Stream is the optional middleware applied to the final streamed
	// request. A nil value means streaming bypasses this middleware.
	Stream StreamMiddleware
}

// buildSendChain constructs the linear send middleware chain. The base
// function calls the provider directly. Middlewares are applied in reverse
// order so that the first entry in the slice becomes the outermost wrapper,
// i.e. the first to execute on an incoming request.
func buildSendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}

	return chain
}

// buildStreamChain constructs the linear stream middleware chain. The base
// function attempts a native stream via ai.StreamProvider; if the provider
// does not implement that interface it falls back to a synchronous
// SendMessage wrapped in a single-event stream. Middlewares with a nil
// Stream field are skipped.
func buildStreamChain(provider ai.Provider, middlewares []MiddlewareConfig) StreamFunc {
	var chain StreamFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
		if streamProvider, ok := provider.(ai.StreamProvider); ok {
			return streamProvider.StreamMessage(ctx, request)
		}

		response, err := provider.SendMessage(ctx, request)
		if err != nil {
			return nil, err
		}

		return ai.NewSingleEventStream(response), nil
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Stream != nil {
			chain = middlewares[i].Stream(chain)
		}
	}

	return chain
}
