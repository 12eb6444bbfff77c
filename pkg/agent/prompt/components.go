package prompt

import (
	"fmt"
	"strings"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// FormatFounderProfile builds the founder section from the known facts.
func FormatFounderProfile(userName, industry, idea string) string {
	var sb strings.Builder
	sb.WriteString("## Founder Profile\n\n")
	fmt.Fprintf(&sb, "**Name:** %s\n", orUnknown(userName))
	fmt.Fprintf(&sb, "**Industry Focus:** %s\n", orUnknown(industry))
	fmt.Fprintf(&sb, "**Chosen Idea:** %s\n", orUnknown(idea))
	return sb.String()
}

// BuildChainContext formats completed stage outputs into a context block
// for the next stage's prompt, one header per stage.
func BuildChainContext(outputs []journey.StageOutput) string {
	if len(outputs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<!-- CHAIN_CONTEXT_START -->\n\n")
	for i, o := range outputs {
		fmt.Fprintf(&sb, "### Stage %d: %s\n\n", i+1, o.Stage)
		sb.WriteString(o.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("<!-- CHAIN_CONTEXT_END -->")
	return sb.String()
}

// FormatChainContext wraps pre-formatted previous stage context into a section.
func FormatChainContext(chainContext string) string {
	if chainContext == "" {
		return "## Previous Stage Results\nNo earlier stage has produced results yet.\n"
	}

	var sb strings.Builder
	sb.WriteString("## Previous Stage Results\n")
	sb.WriteString(chainContext)
	sb.WriteString("\n")
	return sb.String()
}

// FormatCurrentOutput shows this stage's latest output so revisions build on it.
func FormatCurrentOutput(stage journey.Stage, output string) string {
	if output == "" {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Current %s Draft\n", stage)
	sb.WriteString("<!-- CURRENT_DRAFT_START -->\n")
	sb.WriteString(output)
	sb.WriteString("\n<!-- CURRENT_DRAFT_END -->\n")
	return sb.String()
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not yet known)"
	}
	return v
}
