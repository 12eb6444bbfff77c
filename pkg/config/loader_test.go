package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

func writeConfigDir(t *testing.T, mainYAML, providersYAML string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MainConfigFile), []byte(mainYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LLMProvidersConfigFile), []byte(providersYAML), 0o644))
	return dir
}

func TestInitialize(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	dir := writeConfigDir(t, "{}", "llm_providers: {}")
	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, dir, cfg.ConfigDir())
	assert.Equal(t, "google-default", cfg.Defaults.LLMProvider)
	assert.Equal(t, DefaultJourneyConfig(), cfg.Journey)
	assert.Equal(t, DefaultRetentionConfig(), cfg.Retention)
	assert.Equal(t, DefaultMaskingConfig(), cfg.Masking)

	stats := cfg.Stats()
	assert.Equal(t, 5, stats.Stages, "every non-terminal stage has an agent")
	assert.Equal(t, 4, stats.LLMProviders)

	stageCfg, err := cfg.GetStage(journey.StageIdeaGeneration)
	require.NoError(t, err)
	require.NotNil(t, stageCfg.Temperature)
	assert.InDelta(t, 0.9, *stageCfg.Temperature, 1e-6)

	_, err = cfg.GetStage(journey.StageComplete)
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestInitialize_UserOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("VALIDATION_PROVIDER", "openai-default")

	mainYAML := `
defaults:
  llm_provider: fast-gemini
journey:
  advance_threshold: 0.8
  history_window: 6
  research_timeout: 20s
retention:
  session_retention_days: 7
masking:
  enabled: false
stages:
  validation:
    llm_provider: "{{.VALIDATION_PROVIDER}}"
    custom_instructions: "Be blunt about weak markets."
classifier:
  llm_provider: fast-gemini
`
	providersYAML := `
llm_providers:
  fast-gemini:
    type: google
    model: gemini-2.5-flash-lite
    api_key_env: GOOGLE_API_KEY
    native_tools:
      google_search: true
`
	cfg, err := Initialize(context.Background(), writeConfigDir(t, mainYAML, providersYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Journey.AdvanceThreshold)
	assert.Equal(t, 6, cfg.Journey.HistoryWindow)
	assert.Equal(t, 20*time.Second, cfg.Journey.ResearchTimeout)
	assert.Equal(t, 2, cfg.Journey.MinOnboardingMessages, "unset values keep defaults")
	assert.Equal(t, 3, cfg.Journey.ResearchConcurrency)
	assert.Equal(t, 7, cfg.Retention.SessionRetentionDays)
	assert.Equal(t, time.Hour, cfg.Retention.CleanupInterval)
	assert.False(t, cfg.Masking.Enabled, "a masking block replaces the defaults")

	validation, err := cfg.GetStage(journey.StageValidation)
	require.NoError(t, err)
	assert.Equal(t, "openai-default", validation.LLMProvider)
	assert.Equal(t, "Be blunt about weak markets.", validation.CustomInstructions)
	assert.Nil(t, validation.Temperature, "a user stage entry replaces the built-in one")

	name, provider, err := cfg.ResolveProvider("")
	require.NoError(t, err)
	assert.Equal(t, "fast-gemini", name)
	assert.Equal(t, LLMBackendGenAI, provider.ResolvedBackend())
	assert.True(t, provider.NativeToolEnabled(GoogleNativeToolGoogleSearch))

	_, openai, err := cfg.ResolveProvider("openai-default")
	require.NoError(t, err)
	assert.Equal(t, LLMBackendService, openai.ResolvedBackend())
}

func TestInitialize_Errors(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	t.Run("missing directory", func(t *testing.T) {
		_, err := Initialize(context.Background(), "/nonexistent/directory")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Initialize(context.Background(), writeConfigDir(t, "journey: [", "llm_providers: {}"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("unknown stage tag", func(t *testing.T) {
		_, err := Initialize(context.Background(), writeConfigDir(t, "stages:\n  ideation: {}\n", "llm_providers: {}"))
		require.Error(t, err)
		assert.ErrorIs(t, err, journey.ErrUnknownStage)
	})

	t.Run("complete stage cannot be configured", func(t *testing.T) {
		_, err := Initialize(context.Background(), writeConfigDir(t, "stages:\n  complete: {}\n", "llm_providers: {}"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("unknown provider reference", func(t *testing.T) {
		_, err := Initialize(context.Background(), writeConfigDir(t, "research:\n  llm_provider: nope\n", "llm_providers: {}"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLLMProviderNotFound)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("missing credentials of a used provider", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")
		_, err := Initialize(context.Background(), writeConfigDir(t, "defaults:\n  llm_provider: anthropic-default\n", "llm_providers: {}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY is not set")
	})
}
