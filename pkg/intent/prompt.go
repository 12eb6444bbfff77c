package intent

import (
	"fmt"
	"strings"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

var advanceCriteria = map[journey.Stage]string{
	journey.StageOnboarding:        "The founder has shared their background, interests and goals, and is ready to explore startup ideas.",
	journey.StageIdeaGeneration:    "The founder has clearly picked one idea to validate (by name, number or description).",
	journey.StageValidation:        "The founder accepts the market validation and wants to define product requirements.",
	journey.StageRequirements:      "The founder is satisfied with the requirements outline and wants the builder prompt.",
	journey.StagePromptEngineering: "The founder is happy with the builder prompt and considers the journey done.",
}

const instructions = `Decide whether the founder is ready to leave the current stage.
Only answer yes when the latest message clearly signals it. Questions, requests for changes
or hesitation mean the founder wants to stay.

Reply with a single JSON object and nothing else:
{"should_proceed": true|false, "confidence": 0.0-1.0, "reason": "short explanation",
 "facts": {"user_name": "", "industry_focus": "", "startup_idea": ""}}
Fill a fact only when the conversation states it explicitly; otherwise leave it empty.`

// BuildPrompt assembles the classification request.
func BuildPrompt(userMessage string, stage journey.Stage, history []journey.Message) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Current stage: %s\n%s\n\n", stage.String(), stage.Description())
	if criteria, ok := advanceCriteria[stage]; ok {
		fmt.Fprintf(&sb, "Ready to move on when: %s\n\n", criteria)
	}

	if len(history) > 0 {
		sb.WriteString("## Recent conversation\n")
		for _, m := range history {
			fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Latest founder message\n%s\n\n", userMessage)
	sb.WriteString(instructions)
	return sb.String()
}
