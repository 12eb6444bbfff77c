package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// ConfigValidator validates configuration comprehensively with clear error messages
type ConfigValidator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error).
// Providers are validated before the references that point at them.
func (v *ConfigValidator) ValidateAll() error {
	if err := v.validateJourney(); err != nil {
		return fmt.Errorf("journey validation failed: %w", err)
	}

	if err := v.validateRetention(); err != nil {
		return fmt.Errorf("retention validation failed: %w", err)
	}

	if err := v.validateMasking(); err != nil {
		return fmt.Errorf("masking validation failed: %w", err)
	}

	if err := v.validateSlack(); err != nil {
		return fmt.Errorf("slack validation failed: %w", err)
	}

	if err := v.validateLLMProviders(); err != nil {
		return fmt.Errorf("LLM provider validation failed: %w", err)
	}

	if err := v.validateReferences(); err != nil {
		return fmt.Errorf("provider reference validation failed: %w", err)
	}

	return nil
}

func (v *ConfigValidator) validateJourney() error {
	j := v.cfg.Journey
	if j == nil {
		return NewValidationError("journey", "journey", "", fmt.Errorf("%w: missing", ErrInvalidValue))
	}
	if j.AdvanceThreshold <= 0 || j.AdvanceThreshold > 1 {
		return NewValidationError("journey", "journey", "advance_threshold", fmt.Errorf("must be in (0, 1], got %v", j.AdvanceThreshold))
	}
	if j.HistoryWindow < 1 {
		return NewValidationError("journey", "journey", "history_window", fmt.Errorf("must be at least 1"))
	}
	if j.MinOnboardingMessages < 1 {
		return NewValidationError("journey", "journey", "min_onboarding_messages", fmt.Errorf("must be at least 1"))
	}
	if j.GenerationTimeout <= 0 {
		return NewValidationError("journey", "journey", "generation_timeout", fmt.Errorf("must be positive"))
	}
	if j.ClassificationTimeout <= 0 {
		return NewValidationError("journey", "journey", "classification_timeout", fmt.Errorf("must be positive"))
	}
	if j.ResearchTimeout <= 0 {
		return NewValidationError("journey", "journey", "research_timeout", fmt.Errorf("must be positive"))
	}
	if j.ResearchConcurrency < 1 {
		return NewValidationError("journey", "journey", "research_concurrency", fmt.Errorf("must be at least 1"))
	}
	if j.MaxMessageLength < 1 {
		return NewValidationError("journey", "journey", "max_message_length", fmt.Errorf("must be at least 1"))
	}
	return nil
}

func (v *ConfigValidator) validateRetention() error {
	r := v.cfg.Retention
	if r == nil {
		return nil
	}
	if r.SessionRetentionDays < 1 {
		return NewValidationError("retention", "retention", "session_retention_days", fmt.Errorf("must be at least 1"))
	}
	if r.CleanupInterval <= 0 {
		return NewValidationError("retention", "retention", "cleanup_interval", fmt.Errorf("must be positive"))
	}
	return nil
}

func (v *ConfigValidator) validateMasking() error {
	m := v.cfg.Masking
	if m == nil || !m.Enabled {
		return nil
	}
	builtin := GetBuiltinConfig()
	for _, group := range m.PatternGroups {
		if _, ok := builtin.PatternGroups[group]; !ok {
			return NewValidationError("masking", "masking", "pattern_groups", fmt.Errorf("unknown pattern group: %s", group))
		}
	}
	for _, name := range m.Patterns {
		_, isPattern := builtin.MaskingPatterns[name]
		if !isPattern && !slices.Contains(builtin.CodeMaskers, name) {
			return NewValidationError("masking", "masking", "patterns", fmt.Errorf("unknown pattern: %s", name))
		}
	}
	for i, custom := range m.CustomPatterns {
		field := fmt.Sprintf("custom_patterns[%d]", i)
		if custom.Pattern == "" {
			return NewValidationError("masking", "masking", field, fmt.Errorf("pattern required"))
		}
		if _, err := regexp.Compile(custom.Pattern); err != nil {
			return NewValidationError("masking", "masking", field, fmt.Errorf("invalid regex: %w", err))
		}
	}
	return nil
}

func (v *ConfigValidator) validateSlack() error {
	s := v.cfg.Slack
	if s == nil || !s.Enabled {
		return nil
	}
	if s.Channel == "" {
		return NewValidationError("slack", "slack", "channel", fmt.Errorf("required when slack is enabled"))
	}
	if s.TokenEnv == "" {
		return NewValidationError("slack", "slack", "token_env", fmt.Errorf("required when slack is enabled"))
	}
	if os.Getenv(s.TokenEnv) == "" {
		return NewValidationError("slack", "slack", "token_env", fmt.Errorf("environment variable %s is not set", s.TokenEnv))
	}
	return nil
}

func (v *ConfigValidator) validateLLMProviders() error {
	for name, provider := range v.cfg.LLMProviderRegistry.GetAll() {
		if !provider.Type.IsValid() {
			return NewValidationError("llm_provider", name, "type", fmt.Errorf("invalid provider type: %s", provider.Type))
		}

		if provider.Model == "" {
			return NewValidationError("llm_provider", name, "model", fmt.Errorf("model required"))
		}

		if provider.Backend != "" && !provider.Backend.IsValid() {
			return NewValidationError("llm_provider", name, "backend", fmt.Errorf("invalid backend: %s", provider.Backend))
		}

		if provider.ResolvedBackend() == LLMBackendGenAI &&
			provider.Type != LLMProviderTypeGoogle && provider.Type != LLMProviderTypeVertexAI {
			return NewValidationError("llm_provider", name, "backend", fmt.Errorf("genai backend only serves google and vertexai providers"))
		}

		if provider.MaxOutputTokens < 0 {
			return NewValidationError("llm_provider", name, "max_output_tokens", fmt.Errorf("must not be negative"))
		}

		for tool := range provider.NativeTools {
			if !tool.IsValid() {
				return NewValidationError("llm_provider", name, "native_tools", fmt.Errorf("invalid native tool: %s", tool))
			}
		}
	}

	return nil
}

// validateReferences checks every provider that is actually used: it must
// exist and its credentials must be present in the environment.
func (v *ConfigValidator) validateReferences() error {
	check := func(component, id, name string) error {
		if name == "" {
			name = v.cfg.Defaults.LLMProvider
		}
		provider, err := v.cfg.LLMProviderRegistry.Get(name)
		if err != nil {
			return NewValidationError(component, id, "llm_provider", err)
		}
		return v.validateCredentials(name, provider)
	}

	if err := check("defaults", "defaults", v.cfg.Defaults.LLMProvider); err != nil {
		return err
	}
	for _, stage := range journey.AllStages() {
		if stage == journey.StageComplete {
			continue
		}
		stageCfg, err := v.cfg.StageRegistry.Get(stage)
		if err != nil {
			return NewValidationError("stage", stage.Tag(), "", err)
		}
		if err := check("stage", stage.Tag(), stageCfg.LLMProvider); err != nil {
			return err
		}
	}
	if err := check("classifier", "classifier", v.cfg.Classifier.LLMProvider); err != nil {
		return err
	}
	return check("research", "research", v.cfg.Research.LLMProvider)
}

func (v *ConfigValidator) validateCredentials(name string, provider *LLMProviderConfig) error {
	if provider.APIKeyEnv != "" && os.Getenv(provider.APIKeyEnv) == "" {
		return NewValidationError("llm_provider", name, "api_key_env", fmt.Errorf("environment variable %s is not set", provider.APIKeyEnv))
	}
	if provider.Type == LLMProviderTypeVertexAI {
		if provider.ProjectEnv != "" && os.Getenv(provider.ProjectEnv) == "" {
			return NewValidationError("llm_provider", name, "project_env", fmt.Errorf("environment variable %s is not set", provider.ProjectEnv))
		}
		if provider.LocationEnv != "" && os.Getenv(provider.LocationEnv) == "" {
			return NewValidationError("llm_provider", name, "location_env", fmt.Errorf("environment variable %s is not set", provider.LocationEnv))
		}
	}
	return nil
}
