// Package memory defines the conversation log abstraction consumed by the
// agent orchestrator. See providers/memory/inmemory for the default
// implementation.
package memory
