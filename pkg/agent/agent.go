// Package agent implements the LLM collaborators of the venture journey:
// the per-stage generation agent, the intent classification collaborator
// and the market research collaborator. All of them talk to a model
// through the streaming LLMClient interface.
package agent

import "errors"

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// Role values used in ConversationMessage.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TokenUsage aggregates token consumption of one LLM call.
type TokenUsage struct {
	InputTokens    int
	OutputTokens   int
	TotalTokens    int
	ThinkingTokens int
}
