package memory

import (
	"context"

	"github.com/leofalp/agentcli/providers/ai"
)

// Provider is the conversation log abstraction used by the agent. The log is
// append-only during normal operation; TruncateTo exists so a failed turn can
// be rolled back to its pre-turn length, and ReplaceLast so the streaming
// path can swap its placeholder assistant message for the streamed one.
//
// The system prompt is not stored here: the agent holds it and injects it as
// the leading wire message on every request, so clearing the log is a full
// conversation reset.
type Provider interface {
	// AppendMessage stores a copy of message at the end of the log.
	AppendMessage(ctx context.Context, message *ai.Message)

	// AllMessages returns a copy of the full log in order.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// TruncateTo discards every message after the first n.
	TruncateTo(ctx context.Context, n int)

	// ReplaceLast overwrites the most recent message. It is a no-op on an
	// empty log.
	ReplaceLast(ctx context.Context, message *ai.Message)

	// ClearMessages removes all messages.
	ClearMessages(ctx context.Context)
}
