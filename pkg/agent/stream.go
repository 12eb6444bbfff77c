package agent

import (
	"context"
	"fmt"
	"strings"
)

// LLMResponse holds the fully-collected response from a streaming LLM call.
type LLMResponse struct {
	Text         string
	ThinkingText string
	Usage        *TokenUsage
}

// CollectStream drains an LLM chunk channel into a complete LLMResponse.
// Returns an error if an ErrorChunk is received.
func CollectStream(stream <-chan Chunk) (*LLMResponse, error) {
	resp := &LLMResponse{}
	var textBuf, thinkingBuf strings.Builder

	for chunk := range stream {
		switch c := chunk.(type) {
		case *TextChunk:
			textBuf.WriteString(c.Content)
		case *ThinkingChunk:
			thinkingBuf.WriteString(c.Content)
		case *UsageChunk:
			resp.Usage = &TokenUsage{
				InputTokens:    c.InputTokens,
				OutputTokens:   c.OutputTokens,
				TotalTokens:    c.TotalTokens,
				ThinkingTokens: c.ThinkingTokens,
			}
		case *ErrorChunk:
			return nil, fmt.Errorf("LLM error: %s (code: %s, retryable: %v)",
				c.Message, c.Code, c.Retryable)
		}
	}

	resp.Text = textBuf.String()
	resp.ThinkingText = thinkingBuf.String()
	return resp, nil
}

// CallLLM performs a single LLM call with context cancellation support.
// Returns the complete collected response.
func CallLLM(ctx context.Context, client LLMClient, input *GenerateInput) (*LLMResponse, error) {
	// Cancelling on return stops the producer goroutine behind Generate.
	llmCtx, llmCancel := context.WithCancel(ctx)
	defer llmCancel()

	stream, err := client.Generate(llmCtx, input)
	if err != nil {
		return nil, fmt.Errorf("LLM Generate failed: %w", err)
	}

	resp, err := CollectStream(stream)
	if err != nil {
		return nil, err
	}
	// A stream cut short by cancellation looks like a clean close.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}
