package controller

import (
	"context"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/prompt"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// StageController generates a stage's output with a single LLM call.
// Implements orchestrator.Generator.
type StageController struct {
	client   agent.LLMClient
	provider *config.LLMProviderConfig
	stage    *config.StageConfig
	builder  *prompt.PromptBuilder
}

// NewStageController creates a stage controller. stageCfg may be nil.
func NewStageController(client agent.LLMClient, provider *config.LLMProviderConfig, stageCfg *config.StageConfig, builder *prompt.PromptBuilder) *StageController {
	if stageCfg == nil {
		stageCfg = &config.StageConfig{}
	}
	return &StageController{client: client, provider: provider, stage: stageCfg, builder: builder}
}

// Generate builds the stage conversation and returns the model's reply.
func (c *StageController) Generate(ctx context.Context, stage journey.Stage, in *orchestrator.StageInput) (string, error) {
	return singleShot(ctx, c.client, &agent.GenerateInput{
		SessionID:   in.SessionID,
		Purpose:     "stage:" + stage.Tag(),
		Messages:    c.builder.BuildStageMessages(in, c.stage.CustomInstructions),
		Config:      c.provider,
		Temperature: c.stage.Temperature,
	})
}
