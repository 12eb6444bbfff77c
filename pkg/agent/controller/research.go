package controller

import (
	"context"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/prompt"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

var researchTemperature = float32(0.2)

// ResearchController answers one market research query, with web search
// grounding when the provider enables it. Implements market.Researcher.
type ResearchController struct {
	client   agent.LLMClient
	provider *config.LLMProviderConfig
	builder  *prompt.PromptBuilder
}

// NewResearchController creates a research collaborator.
func NewResearchController(client agent.LLMClient, provider *config.LLMProviderConfig, builder *prompt.PromptBuilder) *ResearchController {
	return &ResearchController{client: client, provider: provider, builder: builder}
}

// Research returns the raw findings for query, ideally one JSON object.
func (c *ResearchController) Research(ctx context.Context, query string) (string, error) {
	return singleShot(ctx, c.client, &agent.GenerateInput{
		SessionID:    orchestrator.SessionIDFrom(ctx),
		Purpose:      "research",
		Messages:     c.builder.BuildResearchMessages(query),
		Config:       c.provider,
		Temperature:  &researchTemperature,
		JSONResponse: true,
		EnableSearch: true,
	})
}
