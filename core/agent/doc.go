// Package agent implements the conversation orchestrator: a bounded
// tool-call loop over a single LLM conversation, with synchronous and
// streaming turn variants and a composable middleware chain around the
// provider calls.
package agent
