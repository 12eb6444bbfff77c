package config

import (
	"sync"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// BuiltinConfig holds all built-in configuration data: default providers,
// per-stage agent settings, masking patterns and the default provider name.
type BuiltinConfig struct {
	LLMProviders       map[string]LLMProviderConfig
	Stages             map[journey.Stage]StageConfig
	MaskingPatterns    map[string]MaskingPattern
	PatternGroups      map[string][]string
	CodeMaskers        []string
	DefaultLLMProvider string
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration (thread-safe, lazy-initialized)
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		LLMProviders:       initBuiltinLLMProviders(),
		Stages:             initBuiltinStages(),
		MaskingPatterns:    initBuiltinMaskingPatterns(),
		PatternGroups:      initBuiltinPatternGroups(),
		CodeMaskers:        []string{"credential_document"},
		DefaultLLMProvider: "google-default",
	}
}

func initBuiltinLLMProviders() map[string]LLMProviderConfig {
	return map[string]LLMProviderConfig{
		"google-default": {
			Type:      LLMProviderTypeGoogle,
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GOOGLE_API_KEY",
			NativeTools: map[GoogleNativeTool]bool{
				GoogleNativeToolGoogleSearch: true,
				GoogleNativeToolURLContext:   false,
			},
		},
		"vertexai-default": {
			Type:        LLMProviderTypeVertexAI,
			Model:       "gemini-2.5-pro",
			ProjectEnv:  "GOOGLE_CLOUD_PROJECT",
			LocationEnv: "GOOGLE_CLOUD_LOCATION",
			NativeTools: map[GoogleNativeTool]bool{
				GoogleNativeToolGoogleSearch: true,
			},
		},
		"openai-default": {
			Type:      LLMProviderTypeOpenAI,
			Model:     "gpt-5",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		"anthropic-default": {
			Type:      LLMProviderTypeAnthropic,
			Model:     "claude-sonnet-4-5",
			APIKeyEnv: "ANTHROPIC_API_KEY",
		},
	}
}

func initBuiltinStages() map[journey.Stage]StageConfig {
	creative := float32(0.9)
	precise := float32(0.3)
	return map[journey.Stage]StageConfig{
		journey.StageOnboarding:        {},
		journey.StageIdeaGeneration:    {Temperature: &creative},
		journey.StageValidation:        {Temperature: &precise},
		journey.StageRequirements:      {},
		journey.StagePromptEngineering: {Temperature: &precise},
	}
}

func initBuiltinMaskingPatterns() map[string]MaskingPattern {
	return map[string]MaskingPattern{
		"api_key": {
			Pattern:     `(?i)(?:api[_-]?key|apikey)["\']?\s*[:=]\s*["\']?([A-Za-z0-9_\-]{20,})["\']?`,
			Replacement: `api_key: __MASKED_API_KEY__`,
			Description: "API keys",
		},
		"password": {
			Pattern:     `(?i)(?:password|passwd|pwd)["\']?\s*[:=]\s*["\']?([^"\'\s]{6,})["\']?`,
			Replacement: `password: __MASKED_PASSWORD__`,
			Description: "Passwords",
		},
		"certificate": {
			Pattern:     `(?s)-----BEGIN [A-Z ]+-----.*?-----END [A-Z ]+-----`,
			Replacement: `__MASKED_CERTIFICATE__`,
			Description: "PEM certificates and keys",
		},
		"token": {
			Pattern:     `(?i)(?:token|bearer|jwt)["\']?\s*[:=]\s*["\']?([A-Za-z0-9_\-\.]{20,})["\']?`,
			Replacement: `token: __MASKED_TOKEN__`,
			Description: "Access tokens",
		},
		"email": {
			Pattern:     `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9]+(?:[.-][A-Za-z0-9]+)*\.[A-Za-z]{2,63}\b`,
			Replacement: `__MASKED_EMAIL__`,
			Description: "Email addresses",
		},
		"ssh_key": {
			Pattern:     `ssh-(?:rsa|dss|ed25519|ecdsa)\s+[A-Za-z0-9+/=]+`,
			Replacement: `__MASKED_SSH_KEY__`,
			Description: "SSH public keys",
		},
		"private_key": {
			Pattern:     `(?i)(?:private[_-]?key)["\']?\s*[:=]\s*["\']?([A-Za-z0-9_\-\.]{20,})["\']?`,
			Replacement: `private_key: __MASKED_PRIVATE_KEY__`,
			Description: "Private keys",
		},
		"secret_key": {
			Pattern:     `(?i)(?:secret[_-]?key)["\']?\s*[:=]\s*["\']?([A-Za-z0-9_\-\.]{20,})["\']?`,
			Replacement: `secret_key: __MASKED_SECRET_KEY__`,
			Description: "Secret keys",
		},
		"aws_access_key": {
			Pattern:     `\bAKIA[A-Z0-9]{16}\b`,
			Replacement: `__MASKED_AWS_KEY__`,
			Description: "AWS access key IDs",
		},
		"github_token": {
			Pattern:     `\bgh[pousr]_[A-Za-z0-9_]{36,255}\b`,
			Replacement: `__MASKED_GITHUB_TOKEN__`,
			Description: "GitHub tokens",
		},
		"slack_token": {
			Pattern:     `(?i)xox[baprs]-[A-Za-z0-9-]{10,72}`,
			Replacement: `__MASKED_SLACK_TOKEN__`,
			Description: "Slack tokens",
		},
		"stripe_key": {
			Pattern:     `\b(?:sk|rk)_(?:live|test)_[A-Za-z0-9]{16,}\b`,
			Replacement: `__MASKED_STRIPE_KEY__`,
			Description: "Stripe secret keys",
		},
	}
}

// initBuiltinPatternGroups returns predefined groups of masking patterns.
// Members may name a regex pattern or a code masker.
func initBuiltinPatternGroups() map[string][]string {
	return map[string][]string{
		"basic":    {"api_key", "password"},
		"secrets":  {"credential_document", "api_key", "password", "token", "private_key", "secret_key", "certificate", "aws_access_key", "github_token", "slack_token", "stripe_key"},
		"personal": {"email"},
		"all":      {"credential_document", "api_key", "password", "certificate", "email", "token", "ssh_key", "private_key", "secret_key", "aws_access_key", "github_token", "slack_token", "stripe_key"},
	}
}
