package prompt

import (
	"strings"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// PromptBuilder builds all prompt text for the stage and research agents.
// Stateless: all state comes from parameters. Safe for concurrent use.
type PromptBuilder struct{}

// NewPromptBuilder creates a PromptBuilder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ComposeInstructions builds the tiered system instructions for a stage.
func (b *PromptBuilder) ComposeInstructions(stage journey.Stage, customInstructions string) string {
	sections := []string{generalInstructions}

	if s, ok := stageInstructions[stage]; ok {
		sections = append(sections, s)
	}

	if customInstructions != "" {
		sections = append(sections, "## Stage-Specific Instructions\n\n"+customInstructions)
	}

	return strings.Join(sections, "\n\n")
}

// BuildStageMessages builds the conversation for one stage turn: the
// system instructions, the recent history replayed as turns, and a final
// user message carrying the founder profile, the chain context and the
// founder's latest message.
func (b *PromptBuilder) BuildStageMessages(in *orchestrator.StageInput, customInstructions string) []agent.ConversationMessage {
	messages := []agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: b.ComposeInstructions(in.Stage, customInstructions)},
	}

	for _, m := range in.History {
		role := agent.RoleUser
		if m.Role == journey.RoleAssistant {
			role = agent.RoleAssistant
		}
		messages = append(messages, agent.ConversationMessage{Role: role, Content: m.Content})
	}

	messages = append(messages, agent.ConversationMessage{
		Role:    agent.RoleUser,
		Content: b.buildStageUserMessage(in),
	})
	return messages
}

func (b *PromptBuilder) buildStageUserMessage(in *orchestrator.StageInput) string {
	var sb strings.Builder

	sb.WriteString(FormatFounderProfile(in.UserName, in.IndustryFocus, in.StartupIdea))
	sb.WriteString("\n")

	sb.WriteString(FormatChainContext(BuildChainContext(in.PriorOutputs)))
	sb.WriteString("\n")

	if draft := FormatCurrentOutput(in.Stage, in.CurrentOutput); draft != "" {
		sb.WriteString(draft)
		sb.WriteString("\n")
	}

	sb.WriteString(separator)
	sb.WriteString("\n")
	if strings.TrimSpace(in.UserMessage) == "" {
		sb.WriteString(firstTurnTask)
		return sb.String()
	}
	sb.WriteString("## Founder's Message\n\n")
	sb.WriteString(in.UserMessage)
	return sb.String()
}

// BuildResearchMessages builds the conversation for one research query.
func (b *PromptBuilder) BuildResearchMessages(query string) []agent.ConversationMessage {
	return []agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: researchInstructions},
		{Role: agent.RoleUser, Content: "## Research Question\n\n" + query},
	}
}

// BuildClassifierMessages wraps a classification prompt as a conversation.
func (b *PromptBuilder) BuildClassifierMessages(classificationPrompt string) []agent.ConversationMessage {
	return []agent.ConversationMessage{
		{Role: agent.RoleSystem, Content: "You classify founder intent in a startup coaching journey. Reply with JSON only."},
		{Role: agent.RoleUser, Content: classificationPrompt},
	}
}
