// Package controller provides the LLM-backed collaborators of the journey:
// one single-shot LLM call per stage turn, classification or research query.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ventureforge/ventureforge/pkg/agent"
)

// singleShot executes one LLM call and returns the reply text. When the
// model only produced thinking content, that is used instead.
func singleShot(ctx context.Context, client agent.LLMClient, input *agent.GenerateInput) (string, error) {
	start := time.Now()
	resp, err := agent.CallLLM(ctx, client, input)
	if err != nil {
		return "", fmt.Errorf("%s LLM call failed: %w", input.Purpose, err)
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" && resp.ThinkingText != "" {
		text = resp.ThinkingText
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", input.Purpose, agent.ErrEmptyResponse)
	}

	attrs := []any{
		"session_id", input.SessionID,
		"purpose", input.Purpose,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(text),
	}
	if resp.Usage != nil {
		attrs = append(attrs, "total_tokens", resp.Usage.TotalTokens)
	}
	slog.Debug("LLM call completed", attrs...)
	return text, nil
}
