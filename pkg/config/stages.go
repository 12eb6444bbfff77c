package config

import (
	"fmt"
	"sync"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// StageConfig configures the agent that runs one journey stage.
type StageConfig struct {
	// LLM provider override for this stage (empty = defaults.llm_provider)
	LLMProvider string `yaml:"llm_provider,omitempty"`

	// Extra instructions appended to the stage's built-in system prompt
	CustomInstructions string `yaml:"custom_instructions,omitempty"`

	// Temperature override for generation (nil = provider default)
	Temperature *float32 `yaml:"temperature,omitempty"`
}

// StageRegistry stores per-stage configuration with thread-safe access.
type StageRegistry struct {
	stages map[journey.Stage]*StageConfig
	mu     sync.RWMutex
}

// NewStageRegistry creates a new stage registry
func NewStageRegistry(stages map[journey.Stage]*StageConfig) *StageRegistry {
	copied := make(map[journey.Stage]*StageConfig, len(stages))
	for k, v := range stages {
		copied[k] = v
	}
	return &StageRegistry{stages: copied}
}

// Get retrieves the configuration for a stage (thread-safe)
func (r *StageRegistry) Get(stage journey.Stage) (*StageConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.stages[stage]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStageNotFound, stage.Tag())
	}
	return cfg, nil
}

// GetAll returns all stage configurations (thread-safe, returns copy)
func (r *StageRegistry) GetAll() map[journey.Stage]*StageConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[journey.Stage]*StageConfig, len(r.stages))
	for k, v := range r.stages {
		result[k] = v
	}
	return result
}

// Has checks if a stage is configured (thread-safe)
func (r *StageRegistry) Has(stage journey.Stage) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.stages[stage]
	return exists
}

// Len returns the number of configured stages (thread-safe)
func (r *StageRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stages)
}
