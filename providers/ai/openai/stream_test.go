package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/agentcli/providers/ai"
)

func sseHandler(t *testing.T, lines []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var wire chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if wire.Stream == nil || !*wire.Stream {
			t.Error("stream flag not set on request")
		}
		if wire.StreamOptions == nil || !wire.StreamOptions.IncludeUsage {
			t.Error("stream_options.include_usage not set on request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			_, _ = w.Write([]byte(line + "\n\n"))
		}
	}
}

func TestStreamMessageContent(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		`data: {"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"},"finish_reason":null}]}`,
		`data: {"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}`,
		`data: {"id":"c1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`data: {"id":"c1","object":"chat.completion.chunk","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`,
		`data: [DONE]`,
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if response.Content != "Hello" {
		t.Errorf("Content = %q, want %q", response.Content, "Hello")
	}
	if response.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want %q", response.FinishReason, "stop")
	}
	if response.Usage == nil || response.Usage.TotalTokens != 7 {
		t.Errorf("Usage = %+v, want total 7", response.Usage)
	}
}

func TestStreamMessageToolCallDeltas(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		`data: {"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_7","type":"function","function":{"name":"calculator","arguments":""}}]},"finish_reason":null}]}`,
		`data: {"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"expression\""}}]},"finish_reason":null}]}`,
		`data: {"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":": \"6*7\"}"}}]},"finish_reason":null}]}`,
		`data: {"id":"c2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
		`data: [DONE]`,
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "what is 6*7?"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(response.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %d, want 1", len(response.ToolCalls))
	}
	call := response.ToolCalls[0]
	if call.ID != "call_7" || call.Function.Name != "calculator" {
		t.Errorf("tool call = %+v, want calculator call_7", call)
	}
	if call.Function.Arguments != `{"expression": "6*7"}` {
		t.Errorf("Arguments = %q, want reassembled payload", call.Function.Arguments)
	}
	if response.FinishReason != "tool_calls" {
		t.Errorf("FinishReason = %q, want tool_calls", response.FinishReason)
	}
}

func TestStreamMessageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	_, err := provider.StreamMessage(context.Background(), ai.ChatRequest{Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestStreamMessageRequiresAPIKey(t *testing.T) {
	provider := &OpenAIProvider{client: &http.Client{}}

	_, err := provider.StreamMessage(context.Background(), ai.ChatRequest{Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected missing API key error")
	}
}

func TestStreamMessageMalformedChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {not valid json}\n\n"))
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL).(*OpenAIProvider)

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	_, err = stream.Collect()
	if err == nil {
		t.Fatal("expected mid-stream parse error")
	}
}
