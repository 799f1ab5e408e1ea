package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/agentcli/core/parse"
	"github.com/leofalp/agentcli/providers/ai"
	"github.com/leofalp/agentcli/providers/memory"
	"github.com/leofalp/agentcli/providers/memory/inmemory"
	"github.com/leofalp/agentcli/providers/tool"
)

// DefaultSystemPrompt is sent at the start of every conversation unless
// overridden with WithSystemPrompt.
const DefaultSystemPrompt = "You are a helpful AI assistant with access to a set of tools. " +
	"Use the tools whenever they would help you give a more accurate or " +
	"useful answer. Think step-by-step when solving problems."

// DefaultMaxToolRounds caps the number of tool-call/response cycles per turn.
const DefaultMaxToolRounds = 10

// MaxRoundsMessage is the fixed fallback answer returned when a turn exhausts
// its tool-call rounds without the model producing a final text reply. It is
// a transient notice: it is returned to the caller but never appended to the
// conversation log, in both the synchronous and streaming paths.
const MaxRoundsMessage = "Agent reached the maximum number of tool-call rounds without a final answer."

// Agent owns a single conversation and drives the tool-call loop: it sends
// the history to the model, executes any requested tool calls through the
// registry, feeds the results back, and repeats until the model emits a
// final text answer or the per-turn round cap is hit.
//
// An Agent is not safe for concurrent turns; callers must serialize Chat,
// ChatStream, and Reset per instance (one instance per end-user session).
type Agent struct {
	provider      ai.Provider
	send          SendFunc
	stream        StreamFunc
	memory        memory.Provider
	tools         *tool.Registry
	model         string
	systemPrompt  string
	maxToolRounds int
}

// New creates an Agent for the given provider. Defaults: an empty in-memory
// conversation log, an empty tool registry, [DefaultSystemPrompt], and
// [DefaultMaxToolRounds]; override them with the With* options.
func New(provider ai.Provider, options ...Option) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("provider must not be nil")
	}

	a := &Agent{
		provider:      provider,
		memory:        inmemory.New(),
		tools:         tool.NewRegistry(),
		systemPrompt:  DefaultSystemPrompt,
		maxToolRounds: DefaultMaxToolRounds,
	}

	var middlewares []MiddlewareConfig
	for _, option := range options {
		if err := option(a, &middlewares); err != nil {
			return nil, err
		}
	}

	a.send = buildSendChain(provider, middlewares)
	a.stream = buildStreamChain(provider, middlewares)

	return a, nil
}

// Chat sends userMessage to the agent and returns its final text reply.
// Tool calls are handled transparently inside this method: each round sends
// the full history plus the tool catalog with automatic tool choice, appends
// the assistant reply verbatim, and, when tool calls are present, executes
// them in the order the model emitted them, appending one tool message per
// call with the matching correlation id.
//
// A transport or provider error aborts the turn, rolls the log back to its
// pre-turn length, and is returned to the caller.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	checkpoint, err := a.memory.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("reading conversation length: %w", err)
	}

	a.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: userMessage})

	for round := 0; round < a.maxToolRounds; round++ {
		response, err := a.sendRound(ctx)
		if err != nil {
			a.memory.TruncateTo(ctx, checkpoint)
			return "", err
		}

		a.memory.AppendMessage(ctx, assistantMessage(response))

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}

		a.runToolCalls(ctx, response.ToolCalls)
	}

	return MaxRoundsMessage, nil
}

// Reset clears the conversation log. The system prompt is agent state, not a
// log entry, so the next turn starts from a fresh conversation with the same
// prompt.
func (a *Agent) Reset(ctx context.Context) {
	a.memory.ClearMessages(ctx)
}

// Model returns the model identifier requests are sent with.
func (a *Agent) Model() string {
	return a.model
}

// sendRound sends the current history plus the tool catalog to the model
// with automatic tool choice.
func (a *Agent) sendRound(ctx context.Context) (*ai.ChatResponse, error) {
	messages, err := a.memory.AllMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading conversation: %w", err)
	}

	return a.send(ctx, ai.ChatRequest{
		Model:        a.model,
		SystemPrompt: a.systemPrompt,
		Messages:     messages,
		Tools:        a.tools.Descriptions(),
		ToolChoice:   ai.ToolChoiceAuto,
	})
}

// runToolCalls executes the requested tool calls in order and appends one
// tool message per call, carrying the stringified result and the correlation
// id of the request that produced it. Malformed argument payloads degrade to
// an empty argument map; the resulting dispatch failure is fed back to the
// model like any other tool result.
func (a *Agent) runToolCalls(ctx context.Context, calls []ai.ToolCall) {
	for _, call := range calls {
		args := tool.Args(parse.Arguments(call.Function.Arguments))
		result := a.tools.Dispatch(ctx, call.Function.Name, args)

		a.memory.AppendMessage(ctx, &ai.Message{
			Role:       ai.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
		})
	}
}

// assistantMessage converts a provider response into the assistant log entry,
// preserving any tool-call requests verbatim.
func assistantMessage(response *ai.ChatResponse) *ai.Message {
	return &ai.Message{
		Role:      ai.RoleAssistant,
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
	}
}
