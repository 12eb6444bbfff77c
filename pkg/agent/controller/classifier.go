package controller

import (
	"context"

	"google.golang.org/genai"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/prompt"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// DecisionSchema constrains classifier replies on providers with schema
// support. It mirrors the JSON object intent.ParseDecision reads.
var DecisionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"should_proceed": {
			Type:        genai.TypeBoolean,
			Description: "Whether the founder is ready to move to the next stage",
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence in the decision, between 0 and 1",
		},
		"reason": {
			Type:        genai.TypeString,
			Description: "One sentence explaining the decision",
		},
		"facts": {
			Type:        genai.TypeObject,
			Description: "Facts stated by the founder, empty strings when unknown",
			Properties: map[string]*genai.Schema{
				"user_name":      {Type: genai.TypeString},
				"industry_focus": {Type: genai.TypeString},
				"startup_idea":   {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"should_proceed", "confidence", "reason"},
}

var classifierTemperature = float32(0)

// ClassifierController answers intent classification prompts.
// Implements intent.Collaborator.
type ClassifierController struct {
	client   agent.LLMClient
	provider *config.LLMProviderConfig
	builder  *prompt.PromptBuilder
}

// NewClassifierController creates a classifier collaborator.
func NewClassifierController(client agent.LLMClient, provider *config.LLMProviderConfig, builder *prompt.PromptBuilder) *ClassifierController {
	return &ClassifierController{client: client, provider: provider, builder: builder}
}

// Classify sends the classification prompt in JSON response mode.
func (c *ClassifierController) Classify(ctx context.Context, classificationPrompt string) (string, error) {
	return singleShot(ctx, c.client, &agent.GenerateInput{
		SessionID:      orchestrator.SessionIDFrom(ctx),
		Purpose:        "classifier",
		Messages:       c.builder.BuildClassifierMessages(classificationPrompt),
		Config:         c.provider,
		Temperature:    &classifierTemperature,
		JSONResponse:   true,
		ResponseSchema: DecisionSchema,
	})
}
