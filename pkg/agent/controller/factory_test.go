package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// fakeClientSource hands out one client per provider name.
type fakeClientSource struct {
	clients   map[string]agent.LLMClient
	requested []string
	err       error
}

func (s *fakeClientSource) Client(_ context.Context, name string, _ *config.LLMProviderConfig) (agent.LLMClient, error) {
	s.requested = append(s.requested, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.clients[name], nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Defaults: &config.Defaults{LLMProvider: "google-default"},
		Journey:  config.DefaultJourneyConfig(),
		StageRegistry: config.NewStageRegistry(map[journey.Stage]*config.StageConfig{
			journey.StageOnboarding:        {},
			journey.StageIdeaGeneration:    {},
			journey.StageValidation:        {},
			journey.StageRequirements:      {},
			journey.StagePromptEngineering: {LLMProvider: "openai-default"},
		}),
		LLMProviderRegistry: config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
			"google-default": {Type: config.LLMProviderTypeGoogle, Model: "gemini-2.5-flash"},
			"openai-default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
		}),
	}
}

func TestFactory_StageTable(t *testing.T) {
	source := &fakeClientSource{clients: map[string]agent.LLMClient{
		"google-default": newMockLLMClient(),
		"openai-default": newMockLLMClient(),
	}}
	f := NewFactory(newTestConfig(), source)

	gatherer, err := f.Gatherer(context.Background())
	require.NoError(t, err)
	table, err := f.StageTable(context.Background(), gatherer)
	require.NoError(t, err)

	assert.Empty(t, table.Missing())
	assert.IsType(t, &orchestrator.ValidationAgent{}, table[journey.StageValidation])
	assert.IsType(t, &StageController{}, table[journey.StageRequirements])
	assert.Same(t, source.clients["openai-default"], table[journey.StagePromptEngineering].(*StageController).client)
	assert.Contains(t, source.requested, "openai-default")
}

func TestFactory_UnknownProvider(t *testing.T) {
	cfg := newTestConfig()
	cfg.Classifier = &config.CollaboratorConfig{LLMProvider: "nope"}
	f := NewFactory(cfg, &fakeClientSource{})

	_, err := f.Classifier(context.Background())
	assert.ErrorIs(t, err, config.ErrLLMProviderNotFound)
}

func TestFactory_ClientError(t *testing.T) {
	f := NewFactory(newTestConfig(), &fakeClientSource{err: errors.New("dial failed")})
	_, err := f.Executor(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial failed")
}

// End-to-end: a full journey driven through the wired executor with a
// scripted model.
func TestFactory_ExecutorJourney(t *testing.T) {
	proceed := `{"should_proceed": true, "confidence": 0.92, "reason": "ready",
		"facts": {"user_name": "Ada", "industry_focus": "fintech", "startup_idea": "AI bookkeeping for freelancers"}}`
	client := newMockLLMClient().
		on("stage:", text("Coach reply")).
		on("classifier", text(proceed)).
		on("research", text(`{"tam": "$8 billion", "market_stage": "growing", "competitors": [{"name": "LedgerLy"}]}`))
	source := &fakeClientSource{clients: map[string]agent.LLMClient{
		"google-default": client,
		"openai-default": client,
	}}

	exec, err := NewFactory(newTestConfig(), source).Executor(context.Background())
	require.NoError(t, err)

	sc := journey.New()
	stage := journey.StageOnboarding
	messages := []string{
		"Hi, I'm Ada and I'm into fintech",
		"Let's go with AI bookkeeping",
		"Looks promising, next",
		"Requirements look right",
		"Perfect, thanks",
	}
	for _, msg := range messages {
		sc.UserMessage = msg
		res := exec.RunStage(context.Background(), stage, sc)
		require.False(t, res.Failed(), "stage %s failed: %v", stage.Tag(), res.Err)
		require.True(t, res.Advanced, "stage %s did not advance", stage.Tag())
		stage, sc = res.NextStage, res.Context
	}

	assert.Equal(t, journey.StageComplete, stage)
	assert.Equal(t, "Ada", sc.UserName)
	assert.Equal(t, "AI bookkeeping for freelancers", sc.StartupIdea)
	assert.Contains(t, sc.ValidationReport, "LedgerLy")
	assert.Equal(t, "Coach reply", sc.BuilderPrompt)
	assert.Len(t, sc.History, 2*len(messages))
}
