// Package utils contains internal plumbing shared across providers: JSON
// HTTP POST helpers (synchronous and SSE streaming), an SSE event scanner,
// and small string/pointer conveniences.
package utils
