package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Configuration file names inside the config directory.
const (
	MainConfigFile         = "ventureforge.yaml"
	LLMProvidersConfigFile = "llm-providers.yaml"
)

// VentureForgeYAMLConfig represents the complete ventureforge.yaml file structure
type VentureForgeYAMLConfig struct {
	Defaults   *Defaults              `yaml:"defaults"`
	Journey    *JourneyConfig         `yaml:"journey"`
	Retention  *RetentionConfig       `yaml:"retention"`
	Masking    *MaskingConfig         `yaml:"masking"`
	Slack      *SlackYAMLConfig       `yaml:"slack"`
	Stages     map[string]StageConfig `yaml:"stages"`
	Classifier *CollaboratorConfig    `yaml:"classifier"`
	Research   *CollaboratorConfig    `yaml:"research"`
}

// LLMProvidersYAMLConfig represents the complete llm-providers.yaml file structure
type LLMProvidersYAMLConfig struct {
	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
//
// Steps performed:
//  1. Load YAML files from configDir, expanding {{.VAR}} references
//  2. Merge built-in + user-defined stages and providers
//  3. Merge journey, retention and masking settings over the built-in defaults
//  4. Build in-memory registries
//  5. Validate all configuration (fail-fast)
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"stages", stats.Stages,
		"llm_providers", stats.LLMProviders,
		"default_llm_provider", cfg.Defaults.LLMProvider)

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	mainConfig, err := loader.loadMainYAML()
	if err != nil {
		return nil, NewLoadError(MainConfigFile, err)
	}

	llmProviders, err := loader.loadLLMProvidersYAML()
	if err != nil {
		return nil, NewLoadError(LLMProvidersConfigFile, err)
	}

	builtin := GetBuiltinConfig()

	stages, err := mergeStages(builtin.Stages, mainConfig.Stages)
	if err != nil {
		return nil, NewLoadError(MainConfigFile, err)
	}
	providers := mergeLLMProviders(builtin.LLMProviders, llmProviders)

	defaults := mainConfig.Defaults
	if defaults == nil {
		defaults = &Defaults{}
	}
	if defaults.LLMProvider == "" {
		defaults.LLMProvider = builtin.DefaultLLMProvider
	}

	// Start with defaults, then merge user config on top to preserve unset defaults
	journeyConfig := DefaultJourneyConfig()
	if mainConfig.Journey != nil {
		if err := mergo.Merge(journeyConfig, mainConfig.Journey, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge journey config: %w", err)
		}
	}

	retentionConfig := DefaultRetentionConfig()
	if mainConfig.Retention != nil {
		if err := mergo.Merge(retentionConfig, mainConfig.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	// A masking block replaces the defaults wholesale so enabled: false sticks.
	maskingConfig := DefaultMaskingConfig()
	if mainConfig.Masking != nil {
		maskingConfig = mainConfig.Masking
	}

	classifier := mainConfig.Classifier
	if classifier == nil {
		classifier = &CollaboratorConfig{}
	}
	research := mainConfig.Research
	if research == nil {
		research = &CollaboratorConfig{}
	}

	return &Config{
		configDir:           configDir,
		Defaults:            defaults,
		Journey:             journeyConfig,
		Retention:           retentionConfig,
		Masking:             maskingConfig,
		Slack:               resolveSlackConfig(mainConfig.Slack),
		Classifier:          classifier,
		Research:            research,
		StageRegistry:       NewStageRegistry(stages),
		LLMProviderRegistry: NewLLMProviderRegistry(providers),
	}, nil
}

func validate(cfg *Config) error {
	return NewValidator(cfg).ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadMainYAML() (*VentureForgeYAMLConfig, error) {
	config := VentureForgeYAMLConfig{
		Stages: make(map[string]StageConfig),
	}

	if err := l.loadYAML(MainConfigFile, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (l *configLoader) loadLLMProvidersYAML() (map[string]LLMProviderConfig, error) {
	config := LLMProvidersYAMLConfig{
		LLMProviders: make(map[string]LLMProviderConfig),
	}

	if err := l.loadYAML(LLMProvidersConfigFile, &config); err != nil {
		return nil, err
	}

	return config.LLMProviders, nil
}
