package slack

import (
	"fmt"

	goslack "github.com/slack-go/slack"
)

const maxBlockTextLength = 2900

var stageEmoji = map[string]string{
	"idea_generation":    ":bulb:",
	"validation":         ":bar_chart:",
	"requirements":       ":clipboard:",
	"prompt_engineering": ":hammer_and_wrench:",
	"complete":           ":white_check_mark:",
}

func sessionURL(sessionID, dashboardURL string) string {
	return fmt.Sprintf("%s/api/v1/sessions/%s", dashboardURL, sessionID)
}

// BuildStartedMessage creates Block Kit blocks for the first milestone of a
// journey. Later milestones thread under it.
func BuildStartedMessage(input StageAdvancedInput) []goslack.Block {
	text := fmt.Sprintf(":seedling: *%s started a venture journey*", founderName(input.UserName))
	if input.IndustryFocus != "" {
		text += fmt.Sprintf("\nIndustry focus: %s", input.IndustryFocus)
	}
	return []goslack.Block{
		goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, text, false, false),
			nil, nil,
		),
	}
}

// BuildAdvancedMessage creates Block Kit blocks for a stage transition.
func BuildAdvancedMessage(input StageAdvancedInput, dashboardURL string) []goslack.Block {
	emoji := stageEmoji[input.ToStage]
	if emoji == "" {
		emoji = ":arrow_right:"
	}

	headerText := fmt.Sprintf("%s *%s → %s*", emoji, input.FromStageName, input.ToStageName)
	if input.ToStage == "complete" {
		headerText = fmt.Sprintf("%s *Journey complete*", emoji)
	}

	blocks := []goslack.Block{
		goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, headerText, false, false),
			nil, nil,
		),
	}
	if input.Summary != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, truncateForSlack(input.Summary), false, false),
			nil, nil,
		))
	}

	btn := goslack.NewButtonBlockElement("", "", goslack.NewTextBlockObject(goslack.PlainTextType, "View Session", false, false))
	btn.URL = sessionURL(input.SessionID, dashboardURL)
	blocks = append(blocks, goslack.NewActionBlock("", btn))

	return blocks
}

func founderName(name string) string {
	if name == "" {
		return "A founder"
	}
	return name
}

func truncateForSlack(text string) string {
	if len(text) <= maxBlockTextLength {
		return text
	}
	return text[:maxBlockTextLength] + "\n\n_... (truncated, view the full output in the session)_"
}
