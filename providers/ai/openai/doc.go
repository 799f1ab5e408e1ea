// Package openai implements the ai.Provider and ai.StreamProvider interfaces
// against the OpenAI /v1/chat/completions endpoint, including SSE streaming
// with incremental tool-call deltas.
package openai
