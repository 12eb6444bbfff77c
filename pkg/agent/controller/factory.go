package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/ventureforge/ventureforge/pkg/agent"
	"github.com/ventureforge/ventureforge/pkg/agent/prompt"
	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/intent"
	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/market"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
)

// ClientSource hands out LLM clients per configured provider.
// Implemented by agent.ClientFactory.
type ClientSource interface {
	Client(ctx context.Context, name string, provider *config.LLMProviderConfig) (agent.LLMClient, error)
}

// Factory wires the journey collaborators from configuration.
type Factory struct {
	cfg     *config.Config
	clients ClientSource
	builder *prompt.PromptBuilder
}

// NewFactory creates a collaborator factory.
func NewFactory(cfg *config.Config, clients ClientSource) *Factory {
	return &Factory{cfg: cfg, clients: clients, builder: prompt.NewPromptBuilder()}
}

func (f *Factory) journey() *config.JourneyConfig {
	if f.cfg.Journey != nil {
		return f.cfg.Journey
	}
	return config.DefaultJourneyConfig()
}

func (f *Factory) client(ctx context.Context, override string) (agent.LLMClient, *config.LLMProviderConfig, error) {
	name, provider, err := f.cfg.ResolveProvider(override)
	if err != nil {
		return nil, nil, err
	}
	client, err := f.clients.Client(ctx, name, provider)
	if err != nil {
		return nil, nil, err
	}
	return client, provider, nil
}

func collaboratorProvider(c *config.CollaboratorConfig) string {
	if c == nil {
		return ""
	}
	return c.LLMProvider
}

// Researcher creates the market research collaborator.
func (f *Factory) Researcher(ctx context.Context) (*ResearchController, error) {
	client, provider, err := f.client(ctx, collaboratorProvider(f.cfg.Research))
	if err != nil {
		return nil, fmt.Errorf("research collaborator: %w", err)
	}
	return NewResearchController(client, provider, f.builder), nil
}

// Gatherer creates the research fan-out used by the Validation stage.
func (f *Factory) Gatherer(ctx context.Context) (*market.Gatherer, error) {
	researcher, err := f.Researcher(ctx)
	if err != nil {
		return nil, err
	}
	j := f.journey()
	return market.NewGatherer(researcher, j.ResearchTimeout, j.ResearchConcurrency), nil
}

// Classifier creates the intent classifier with its LLM collaborator.
func (f *Factory) Classifier(ctx context.Context) (*intent.Classifier, error) {
	client, provider, err := f.client(ctx, collaboratorProvider(f.cfg.Classifier))
	if err != nil {
		return nil, fmt.Errorf("classifier collaborator: %w", err)
	}
	j := f.journey()
	return intent.NewClassifier(NewClassifierController(client, provider, f.builder), intent.Config{
		Threshold:             j.AdvanceThreshold,
		HistoryWindow:         j.HistoryWindow,
		MinOnboardingMessages: j.MinOnboardingMessages,
		Timeout:               j.ClassificationTimeout,
	}), nil
}

// StageTable builds the stage→agent table. Validation runs the market
// pipeline over gatherer; every other stage gets an LLM stage controller.
func (f *Factory) StageTable(ctx context.Context, gatherer *market.Gatherer) (orchestrator.StageTable, error) {
	table := orchestrator.StageTable{}
	for _, stage := range journey.AllStages() {
		if stage.IsTerminal() {
			continue
		}
		if stage == journey.StageValidation {
			table[stage] = orchestrator.NewValidationAgent(gatherer)
			continue
		}

		stageCfg, err := f.cfg.GetStage(stage)
		if err != nil && !errors.Is(err, config.ErrStageNotFound) {
			return nil, err
		}
		override := ""
		if stageCfg != nil {
			override = stageCfg.LLMProvider
		}
		client, provider, err := f.client(ctx, override)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Tag(), err)
		}
		table[stage] = NewStageController(client, provider, stageCfg, f.builder)
	}
	return table, nil
}

// Executor wires the complete stage executor.
func (f *Factory) Executor(ctx context.Context) (*orchestrator.Executor, error) {
	gatherer, err := f.Gatherer(ctx)
	if err != nil {
		return nil, err
	}
	table, err := f.StageTable(ctx, gatherer)
	if err != nil {
		return nil, err
	}
	classifier, err := f.Classifier(ctx)
	if err != nil {
		return nil, err
	}
	j := f.journey()
	return orchestrator.NewExecutor(table, classifier, orchestrator.Options{
		HistoryWindow:     j.HistoryWindow,
		GenerationTimeout: j.GenerationTimeout,
	}), nil
}
