package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leofalp/agentcli/providers/ai"
)

func fastRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	calls := 0
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("non-2xx status 429: rate limited")
		}
		return &ai.ChatResponse{Content: "ok"}, nil
	}

	config := NewRetryMiddleware(fastRetryConfig(3))
	wrapped := config.Send(next)

	response, err := wrapped(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("wrapped returned error: %v", err)
	}
	if response.Content != "ok" {
		t.Errorf("Content = %q, want ok", response.Content)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryNonRetryableErrorPropagatesImmediately(t *testing.T) {
	calls := 0
	authErr := errors.New("non-2xx status 401: invalid key")
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		calls++
		return nil, authErr
	}

	config := NewRetryMiddleware(fastRetryConfig(3))
	wrapped := config.Send(next)

	_, err := wrapped(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, authErr) {
		t.Fatalf("err = %v, want the original error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
}

func TestRetryExhaustionWrapsSentinel(t *testing.T) {
	calls := 0
	serverErr := errors.New("non-2xx status 500: boom")
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		calls++
		return nil, serverErr
	}

	config := NewRetryMiddleware(fastRetryConfig(2))
	wrapped := config.Send(next)

	_, err := wrapped(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("err = %v, want ErrRetryExhausted", err)
	}
	if !errors.Is(err, serverErr) {
		t.Fatalf("err = %v, want the last provider error wrapped", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 1 original + 2 retries", calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	next := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		cancel()
		return nil, errors.New("non-2xx status 503")
	}

	config := NewRetryMiddleware(RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Minute, // never actually waited out
	})
	wrapped := config.Send(next)

	_, err := wrapped(ctx, ai.ChatRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetryStreamBypassed(t *testing.T) {
	config := NewRetryMiddleware(fastRetryConfig(1))
	if config.Stream != nil {
		t.Error("retry middleware must not wrap streams")
	}
}

func TestDefaultRetryableFunc(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("non-2xx status 429"), true},
		{"server error", errors.New("non-2xx status 502: bad gateway"), true},
		{"auth error", errors.New("non-2xx status 401"), false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultRetryableFunc(tt.err); got != tt.want {
				t.Errorf("defaultRetryableFunc(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
