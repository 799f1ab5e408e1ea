package agent

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/leofalp/agentcli/providers/ai"
)

// ChatStream sends userMessage to the agent and yields the final text reply
// incrementally, chunk by chunk. Tool-call rounds run synchronously exactly
// as in Chat; only the final answer is streamed. Iterate with a for-range
// loop:
//
//	for chunk, err := range agent.ChatStream(ctx, "what is 2+2?") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk)
//	}
//
// Once the tool-call loop settles on a final reply, the agent reissues the
// request in streaming mode with tool choice forced off and streams that
// response instead, then repairs the log so the conversation holds exactly
// one assistant message containing the streamed text. A turn that exhausts
// its rounds yields [MaxRoundsMessage] as a single chunk without touching
// the log. Any transport error, mid-stream included, rolls the log back to
// its pre-turn length and is yielded as the final pair.
func (a *Agent) ChatStream(ctx context.Context, userMessage string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		checkpoint, err := a.memory.Count(ctx)
		if err != nil {
			yield("", fmt.Errorf("reading conversation length: %w", err))
			return
		}

		a.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: userMessage})

		for round := 0; round < a.maxToolRounds; round++ {
			response, err := a.sendRound(ctx)
			if err != nil {
				a.memory.TruncateTo(ctx, checkpoint)
				yield("", err)
				return
			}

			a.memory.AppendMessage(ctx, assistantMessage(response))

			if len(response.ToolCalls) > 0 {
				a.runToolCalls(ctx, response.ToolCalls)
				continue
			}

			a.streamFinalAnswer(ctx, checkpoint, yield)
			return
		}

		yield(MaxRoundsMessage, nil)
	}
}

// streamFinalAnswer reissues the settled conversation as a streaming request
// and yields the reply chunks. The prefetched assistant reply sits at the
// tail of the log; it is excluded from the outgoing request so the model
// regenerates the answer, and tool choice is forced off so this round cannot
// open another tool cycle. After the stream completes (or the caller stops
// early) the tail entry is overwritten with the streamed text, keeping the
// log at exactly one assistant message for the turn.
func (a *Agent) streamFinalAnswer(ctx context.Context, checkpoint int, yield func(string, error) bool) {
	messages, err := a.memory.AllMessages(ctx)
	if err != nil {
		a.memory.TruncateTo(ctx, checkpoint)
		yield("", fmt.Errorf("reading conversation: %w", err))
		return
	}

	stream, err := a.stream(ctx, ai.ChatRequest{
		Model:        a.model,
		SystemPrompt: a.systemPrompt,
		Messages:     messages[:len(messages)-1],
		Tools:        a.tools.Descriptions(),
		ToolChoice:   ai.ToolChoiceNone,
	})
	if err != nil {
		a.memory.TruncateTo(ctx, checkpoint)
		yield("", err)
		return
	}

	var full strings.Builder
	for event, streamErr := range stream.Iter() {
		if streamErr != nil {
			a.memory.TruncateTo(ctx, checkpoint)
			yield("", streamErr)
			return
		}

		if event.Type == ai.StreamEventContent && event.Content != "" {
			full.WriteString(event.Content)
			if !yield(event.Content, nil) {
				break
			}
		}
	}

	a.memory.ReplaceLast(ctx, &ai.Message{
		Role:    ai.RoleAssistant,
		Content: full.String(),
	})
}
