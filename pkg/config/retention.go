package config

import "time"

// RetentionConfig controls how long idle journey sessions are kept.
type RetentionConfig struct {
	// SessionRetentionDays deletes sessions whose last update is older
	// than this many days.
	SessionRetentionDays int `yaml:"session_retention_days"`

	// CleanupInterval is how often the retention loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		SessionRetentionDays: 30,
		CleanupInterval:      time.Hour,
	}
}
