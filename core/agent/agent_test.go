package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/leofalp/agentcli/providers/ai"
	"github.com/leofalp/agentcli/providers/memory/inmemory"
	"github.com/leofalp/agentcli/providers/tool/calculator"
)

// mockProvider is a scriptable ai.Provider for testing. Each call to
// SendMessage pops the next response from the queue; a nil queue entry or an
// exhausted queue falls back to a plain "done" reply.
type mockProvider struct {
	responses []*ai.ChatResponse
	errs      []error
	requests  []ai.ChatRequest
	calls     int
}

func (m *mockProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	m.requests = append(m.requests, request)
	call := m.calls
	m.calls++

	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	if call < len(m.responses) && m.responses[call] != nil {
		return m.responses[call], nil
	}
	return &ai.ChatResponse{Content: "done", FinishReason: "stop"}, nil
}

func (m *mockProvider) IsStopMessage(response *ai.ChatResponse) bool {
	return response == nil || len(response.ToolCalls) == 0
}

func (m *mockProvider) WithAPIKey(string) ai.Provider           { return m }
func (m *mockProvider) WithBaseURL(string) ai.Provider          { return m }
func (m *mockProvider) WithHttpClient(*http.Client) ai.Provider { return m }

func toolCallResponse(id, name, arguments string) *ai.ChatResponse {
	return &ai.ChatResponse{
		FinishReason: "tool_calls",
		ToolCalls: []ai.ToolCall{{
			ID:   id,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      name,
				Arguments: arguments,
			},
		}},
	}
}

func textResponse(content string) *ai.ChatResponse {
	return &ai.ChatResponse{Content: content, FinishReason: "stop"}
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestNewRejectsNonPositiveRounds(t *testing.T) {
	if _, err := New(&mockProvider{}, WithMaxToolRounds(0)); err == nil {
		t.Fatal("expected error for zero max tool rounds")
	}
}

func TestChatSimpleReply(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{responses: []*ai.ChatResponse{textResponse("Hi!")}}
	mem := inmemory.New()

	a, err := New(provider, WithModel("test-model"), WithMemory(mem))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	reply, err := a.Chat(ctx, "hello")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != "Hi!" {
		t.Errorf("reply = %q, want %q", reply, "Hi!")
	}

	messages, _ := mem.AllMessages(ctx)
	if len(messages) != 2 {
		t.Fatalf("history length = %d, want 2", len(messages))
	}
	if messages[0].Role != ai.RoleUser || messages[1].Role != ai.RoleAssistant {
		t.Errorf("history roles = %v, %v", messages[0].Role, messages[1].Role)
	}
}

func TestChatSystemPromptStaysOutOfHistory(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{}
	mem := inmemory.New()

	a, _ := New(provider, WithMemory(mem), WithSystemPrompt("Be terse."))

	if _, err := a.Chat(ctx, "hello"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if provider.requests[0].SystemPrompt != "Be terse." {
		t.Errorf("request SystemPrompt = %q", provider.requests[0].SystemPrompt)
	}

	messages, _ := mem.AllMessages(ctx)
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			t.Error("system prompt leaked into the conversation log")
		}
	}
}

func TestChatToolRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "calculator", `{"expression": "2 + 2"}`),
		textResponse("The answer is 4."),
	}}
	mem := inmemory.New()

	a, _ := New(provider,
		WithMemory(mem),
		WithTools(calculator.New()),
	)

	reply, err := a.Chat(ctx, "what is 2+2?")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != "The answer is 4." {
		t.Errorf("reply = %q", reply)
	}

	// Second request must carry the tool result with the correlation id.
	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	if last.Role != ai.RoleTool {
		t.Fatalf("last message role = %v, want tool", last.Role)
	}
	if last.ToolCallID != "call_1" {
		t.Errorf("ToolCallID = %q, want call_1", last.ToolCallID)
	}
	if last.Content != "4" {
		t.Errorf("tool result = %q, want 4", last.Content)
	}

	// History: user, assistant(tool call), tool, assistant(final).
	messages, _ := mem.AllMessages(ctx)
	if len(messages) != 4 {
		t.Fatalf("history length = %d, want 4", len(messages))
	}
	if len(messages[1].ToolCalls) != 1 {
		t.Error("assistant tool-call message not preserved verbatim")
	}
}

func TestChatUnknownToolFedBackToModel(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "definitely_not_a_tool", `{}`),
		textResponse("I could not use that tool."),
	}}

	a, _ := New(provider, WithTools(calculator.New()))

	if _, err := a.Chat(ctx, "hello"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	if last.Content != "Error: unknown tool 'definitely_not_a_tool'" {
		t.Errorf("tool result = %q, want unknown-tool error", last.Content)
	}
}

func TestChatMalformedArgumentsDegradeGracefully(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "calculator", `not json at all ((`),
		textResponse("sorry"),
	}}

	a, _ := New(provider, WithTools(calculator.New()))

	if _, err := a.Chat(ctx, "hello"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	if !strings.Contains(last.Content, "missing required argument") {
		t.Errorf("tool result = %q, want missing-argument error", last.Content)
	}
}

func TestChatMaxRoundsFallback(t *testing.T) {
	ctx := context.Background()
	looping := toolCallResponse("call_x", "calculator", `{"expression": "1"}`)
	provider := &mockProvider{responses: []*ai.ChatResponse{looping, looping, looping, looping, looping}}
	mem := inmemory.New()

	a, _ := New(provider,
		WithMemory(mem),
		WithTools(calculator.New()),
		WithMaxToolRounds(3),
	)

	reply, err := a.Chat(ctx, "loop forever")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != MaxRoundsMessage {
		t.Errorf("reply = %q, want the fallback message", reply)
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want exactly 3", provider.calls)
	}

	// The fallback is transient: it never lands in the conversation log.
	messages, _ := mem.AllMessages(ctx)
	for _, message := range messages {
		if message.Content == MaxRoundsMessage {
			t.Error("fallback message was appended to the log")
		}
	}
}

func TestChatTransportErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{
		responses: []*ai.ChatResponse{textResponse("first reply")},
		errs:      []error{nil, errors.New("non-2xx status 500")},
	}
	mem := inmemory.New()

	a, _ := New(provider, WithMemory(mem))

	if _, err := a.Chat(ctx, "first"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	before, _ := mem.Count(ctx)

	_, err := a.Chat(ctx, "second")
	if err == nil {
		t.Fatal("expected transport error")
	}

	after, _ := mem.Count(ctx)
	if after != before {
		t.Errorf("history length = %d, want rollback to %d", after, before)
	}
}

func TestChatAdvertisesToolCatalog(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{}

	a, _ := New(provider, WithTools(calculator.New()))

	if _, err := a.Chat(ctx, "hello"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	request := provider.requests[0]
	if len(request.Tools) != 1 || request.Tools[0].Name != calculator.Name {
		t.Errorf("advertised tools = %+v, want the calculator", request.Tools)
	}
	if request.ToolChoice != ai.ToolChoiceAuto {
		t.Errorf("ToolChoice = %q, want auto", request.ToolChoice)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{}
	mem := inmemory.New()

	a, _ := New(provider, WithMemory(mem))

	if _, err := a.Chat(ctx, "hello"); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	a.Reset(ctx)

	if count, _ := mem.Count(ctx); count != 0 {
		t.Errorf("history length after reset = %d, want 0", count)
	}
}

func TestMultiTurnHistoryGrows(t *testing.T) {
	ctx := context.Background()
	provider := &mockProvider{}
	mem := inmemory.New()

	a, _ := New(provider, WithMemory(mem))

	_, _ = a.Chat(ctx, "one")
	_, _ = a.Chat(ctx, "two")

	// Second request must include the full first turn.
	second := provider.requests[1]
	if len(second.Messages) != 3 {
		t.Errorf("second request carried %d messages, want 3", len(second.Messages))
	}
}
