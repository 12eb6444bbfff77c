package config

import "github.com/ventureforge/ventureforge/pkg/journey"

// Config is the umbrella configuration object returned by Initialize and
// passed by reference to every component that needs settings.
type Config struct {
	configDir string

	// System-wide defaults
	Defaults *Defaults

	// Journey tuning (thresholds, windows, timeouts)
	Journey *JourneyConfig

	// Idle session retention
	Retention *RetentionConfig

	// Founder message redaction
	Masking *MaskingConfig

	// Journey milestone notifications
	Slack *SlackConfig

	// Collaborators outside the stage table
	Classifier *CollaboratorConfig
	Research   *CollaboratorConfig

	// Component registries
	StageRegistry       *StageRegistry
	LLMProviderRegistry *LLMProviderRegistry
}

// Stats contains statistics about loaded configuration
type Stats struct {
	Stages       int
	LLMProviders int
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() Stats {
	s := Stats{}
	if c.StageRegistry != nil {
		s.Stages = c.StageRegistry.Len()
	}
	if c.LLMProviderRegistry != nil {
		s.LLMProviders = c.LLMProviderRegistry.Len()
	}
	return s
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetStage retrieves the agent configuration for a journey stage.
func (c *Config) GetStage(stage journey.Stage) (*StageConfig, error) {
	return c.StageRegistry.Get(stage)
}

// GetLLMProvider retrieves an LLM provider configuration by name.
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}

// ResolveProvider returns the provider named by override, falling back to
// the system default when override is empty.
func (c *Config) ResolveProvider(override string) (string, *LLMProviderConfig, error) {
	name := override
	if name == "" && c.Defaults != nil {
		name = c.Defaults.LLMProvider
	}
	provider, err := c.LLMProviderRegistry.Get(name)
	if err != nil {
		return "", nil, err
	}
	return name, provider, nil
}
