package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

func TestMergeStages(t *testing.T) {
	builtin := map[journey.Stage]StageConfig{
		journey.StageOnboarding: {CustomInstructions: "builtin"},
		journey.StageValidation: {CustomInstructions: "builtin"},
	}
	merged, err := mergeStages(builtin, map[string]StageConfig{
		"validation": {CustomInstructions: "user"},
	})
	require.NoError(t, err)

	assert.Equal(t, "builtin", merged[journey.StageOnboarding].CustomInstructions)
	assert.Equal(t, "user", merged[journey.StageValidation].CustomInstructions)

	merged[journey.StageOnboarding].CustomInstructions = "mutated"
	assert.Equal(t, "builtin", builtin[journey.StageOnboarding].CustomInstructions, "built-ins are copied")
}

func TestMergeLLMProviders(t *testing.T) {
	merged := mergeLLMProviders(
		map[string]LLMProviderConfig{"google-default": {Type: LLMProviderTypeGoogle, Model: "old"}},
		map[string]LLMProviderConfig{
			"google-default": {Type: LLMProviderTypeGoogle, Model: "new"},
			"custom":         {Type: LLMProviderTypeOpenAI, Model: "gpt"},
		},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "new", merged["google-default"].Model)
	assert.Equal(t, "gpt", merged["custom"].Model)
}

func TestEnums(t *testing.T) {
	assert.True(t, LLMProviderTypeVertexAI.IsValid())
	assert.False(t, LLMProviderType("xai").IsValid())
	assert.True(t, LLMBackendService.IsValid())
	assert.False(t, LLMBackend("").IsValid())
	assert.True(t, GoogleNativeToolURLContext.IsValid())

	assert.Equal(t, LLMBackendGenAI, (&LLMProviderConfig{Type: LLMProviderTypeVertexAI}).ResolvedBackend())
	assert.Equal(t, LLMBackendService, (&LLMProviderConfig{Type: LLMProviderTypeAnthropic}).ResolvedBackend())
	assert.Equal(t, LLMBackendService, (&LLMProviderConfig{Type: LLMProviderTypeGoogle, Backend: LLMBackendService}).ResolvedBackend())
}
