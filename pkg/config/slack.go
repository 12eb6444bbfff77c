package config

// SlackYAMLConfig holds Slack notification settings from YAML.
type SlackYAMLConfig struct {
	Enabled      *bool  `yaml:"enabled,omitempty"`
	TokenEnv     string `yaml:"token_env,omitempty"`
	Channel      string `yaml:"channel,omitempty"`
	DashboardURL string `yaml:"dashboard_url,omitempty"`
}

// SlackConfig holds resolved Slack notification configuration.
type SlackConfig struct {
	Enabled      bool
	TokenEnv     string // Env var name for Slack bot token (default: "SLACK_BOT_TOKEN")
	Channel      string // Slack channel ID (e.g., "C12345678")
	DashboardURL string // Base URL for session links
}

// resolveSlackConfig resolves Slack configuration from YAML, applying defaults.
func resolveSlackConfig(s *SlackYAMLConfig) *SlackConfig {
	cfg := &SlackConfig{
		Enabled:      false,
		TokenEnv:     "SLACK_BOT_TOKEN",
		DashboardURL: "http://localhost:8080",
	}
	if s == nil {
		return cfg
	}

	if s.Enabled != nil {
		cfg.Enabled = *s.Enabled
	}
	if s.TokenEnv != "" {
		cfg.TokenEnv = s.TokenEnv
	}
	if s.Channel != "" {
		cfg.Channel = s.Channel
	}
	if s.DashboardURL != "" {
		cfg.DashboardURL = s.DashboardURL
	}
	return cfg
}
