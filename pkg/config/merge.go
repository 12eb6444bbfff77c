package config

import (
	"fmt"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// mergeStages merges built-in and user-defined stage configurations.
// User entries override built-in entries for the same stage tag.
func mergeStages(builtinStages map[journey.Stage]StageConfig, userStages map[string]StageConfig) (map[journey.Stage]*StageConfig, error) {
	result := make(map[journey.Stage]*StageConfig)

	for stage, cfg := range builtinStages {
		cfgCopy := cfg
		result[stage] = &cfgCopy
	}

	for tag, userStage := range userStages {
		stage, err := journey.ParseStage(tag)
		if err != nil {
			return nil, NewValidationError("stage", tag, "", err)
		}
		if stage == journey.StageComplete {
			return nil, NewValidationError("stage", tag, "", fmt.Errorf("%w: complete has no agent", ErrInvalidValue))
		}
		cfgCopy := userStage
		result[stage] = &cfgCopy
	}

	return result, nil
}

// mergeLLMProviders merges built-in and user-defined LLM provider configurations.
// User-defined providers override built-in providers with the same name.
func mergeLLMProviders(builtinProviders map[string]LLMProviderConfig, userProviders map[string]LLMProviderConfig) map[string]*LLMProviderConfig {
	result := make(map[string]*LLMProviderConfig)

	for name, provider := range builtinProviders {
		providerCopy := provider
		result[name] = &providerCopy
	}

	for name, userProvider := range userProviders {
		providerCopy := userProvider
		result[name] = &providerCopy
	}

	return result
}
