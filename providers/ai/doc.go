// Package ai defines the provider-agnostic chat data model (requests,
// responses, messages, tool calls) and the Provider/StreamProvider interfaces
// implemented by concrete LLM backends such as providers/ai/openai.
package ai
