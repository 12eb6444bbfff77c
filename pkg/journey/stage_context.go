package journey

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// DefaultUserName is used until the founder tells us their name.
const DefaultUserName = "Founder"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the raw conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StageContext is the accumulated, serializable record of one session.
//
// Treat it as immutable by convention: the executor works on a Clone and
// hands the updated copy back to the host. Stage output fields are written
// only by their own stage (SetStageOutput) and are never cleared.
type StageContext struct {
	UserName      string    `json:"user_name"`
	IndustryFocus string    `json:"industry_focus,omitempty"`
	StartupIdea   string    `json:"startup_idea,omitempty"`
	UserMessage   string    `json:"user_message,omitempty"`
	History       []Message `json:"conversation_history"`

	OnboardingSummary   string `json:"onboarding_summary,omitempty"`
	IdeaSlate           string `json:"idea_slate,omitempty"`
	ValidationReport    string `json:"validation_report,omitempty"`
	RequirementsOutline string `json:"requirements_outline,omitempty"`
	BuilderPrompt       string `json:"builder_prompt,omitempty"`
}

// StageOutput pairs a completed stage with the text it produced.
type StageOutput struct {
	Stage Stage
	Text  string
}

// Facts are optional session facts extracted from the user's replies.
type Facts struct {
	UserName      string `json:"user_name,omitempty"`
	IndustryFocus string `json:"industry_focus,omitempty"`
	StartupIdea   string `json:"startup_idea,omitempty"`
}

// New returns an empty context with defaults applied.
func New() *StageContext {
	return &StageContext{UserName: DefaultUserName}
}

// ToText serializes the context for storage between turns.
func (c *StageContext) ToText() string {
	data, err := json.Marshal(c)
	if err != nil {
		slog.Error("Failed to serialize stage context", "error", err)
		return "{}"
	}
	return string(data)
}

// FromText rehydrates a context. Malformed or empty input yields a default
// context rather than an error so callers always get something usable.
func FromText(text string) *StageContext {
	c := New()
	if strings.TrimSpace(text) == "" {
		return c
	}
	if err := json.Unmarshal([]byte(text), c); err != nil {
		slog.Warn("Discarding malformed stage context", "error", err, "length", len(text))
		return New()
	}
	return c
}

// Clone returns a deep copy.
func (c *StageContext) Clone() *StageContext {
	out := *c
	if c.History != nil {
		out.History = make([]Message, len(c.History))
		copy(out.History, c.History)
	}
	return &out
}

// StageOutput returns the stored output for a stage ("" when not yet run).
func (c *StageContext) StageOutput(s Stage) string {
	if p := c.outputField(s); p != nil {
		return *p
	}
	return ""
}

// SetStageOutput stores text as the output of stage s. Empty text is
// ignored so a stored output can never be cleared. Returns whether the
// field was written.
func (c *StageContext) SetStageOutput(s Stage, text string) bool {
	p := c.outputField(s)
	if p == nil || strings.TrimSpace(text) == "" {
		return false
	}
	*p = text
	return true
}

// CompletedOutputs returns the outputs of every stage before s that has
// produced one, in journey order.
func (c *StageContext) CompletedOutputs(before Stage) []StageOutput {
	var outputs []StageOutput
	for _, s := range AllStages() {
		if s >= before {
			break
		}
		if text := c.StageOutput(s); text != "" {
			outputs = append(outputs, StageOutput{Stage: s, Text: text})
		}
	}
	return outputs
}

// AppendExchange records one user/assistant turn in the history.
// An empty user message (e.g. a resumed session) only records the reply.
func (c *StageContext) AppendExchange(userMessage, reply string) {
	if userMessage != "" {
		c.History = append(c.History, Message{Role: RoleUser, Content: userMessage})
	}
	if reply != "" {
		c.History = append(c.History, Message{Role: RoleAssistant, Content: reply})
	}
}

// RecentHistory returns at most n of the latest history entries.
func (c *StageContext) RecentHistory(n int) []Message {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// ApplyFacts fills fields that are still empty (or defaulted). Known facts
// are never overwritten.
func (c *StageContext) ApplyFacts(f Facts) {
	if name := strings.TrimSpace(f.UserName); name != "" && (c.UserName == "" || c.UserName == DefaultUserName) {
		c.UserName = name
	}
	if industry := strings.TrimSpace(f.IndustryFocus); industry != "" && c.IndustryFocus == "" {
		c.IndustryFocus = industry
	}
	if idea := strings.TrimSpace(f.StartupIdea); idea != "" && c.StartupIdea == "" {
		c.StartupIdea = idea
	}
}

func (c *StageContext) outputField(s Stage) *string {
	switch s {
	case StageOnboarding:
		return &c.OnboardingSummary
	case StageIdeaGeneration:
		return &c.IdeaSlate
	case StageValidation:
		return &c.ValidationReport
	case StageRequirements:
		return &c.RequirementsOutline
	case StagePromptEngineering:
		return &c.BuilderPrompt
	default:
		return nil
	}
}
