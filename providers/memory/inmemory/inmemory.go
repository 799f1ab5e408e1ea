package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/agentcli/providers/ai"
	"github.com/leofalp/agentcli/providers/memory"
)

// ArrayMemory is a simple, concurrency-safe in-memory message store.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns a new, empty [ArrayMemory] ready for immediate use.
func New() *ArrayMemory {
	return &ArrayMemory{
		messages: []ai.Message{},
	}
}

// Ensure ArrayMemory implements memory.Provider at compile time.
var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores a copy of message at the end of the log.
// It is a no-op when message is nil.
func (m *ArrayMemory) AppendMessage(_ context.Context, message *ai.Message) {
	if message == nil {
		return
	}
	m.mu.Lock()
	m.messages = append(m.messages, *message)
	m.mu.Unlock()
}

// AllMessages returns a copy of all messages to avoid external mutation of
// internal state. The returned error is always nil for the in-memory
// implementation.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// Count returns the number of messages stored. The returned error is always
// nil for the in-memory implementation.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// TruncateTo discards every message after the first n, retaining the
// underlying slice capacity. Values of n at or beyond the current length are
// no-ops; negative values clear the log.
func (m *ArrayMemory) TruncateTo(_ context.Context, n int) {
	if n < 0 {
		n = 0
	}
	m.mu.Lock()
	if n < len(m.messages) {
		m.messages = m.messages[:n]
	}
	m.mu.Unlock()
}

// ReplaceLast overwrites the most recent message with a copy of message.
// It is a no-op when the log is empty or message is nil.
func (m *ArrayMemory) ReplaceLast(_ context.Context, message *ai.Message) {
	if message == nil {
		return
	}
	m.mu.Lock()
	if len(m.messages) > 0 {
		m.messages[len(m.messages)-1] = *message
	}
	m.mu.Unlock()
}

// ClearMessages removes all messages while retaining the underlying slice
// capacity, so subsequent appends do not immediately trigger a reallocation.
func (m *ArrayMemory) ClearMessages(_ context.Context) {
	m.mu.Lock()
	m.messages = m.messages[:0]
	m.mu.Unlock()
}
