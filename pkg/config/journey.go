package config

import "time"

// JourneyConfig tunes stage execution and intent classification.
type JourneyConfig struct {
	// AdvanceThreshold is the minimum classifier confidence for a proceed
	// vote to move the session forward.
	AdvanceThreshold float64 `yaml:"advance_threshold"`

	// HistoryWindow is how many recent conversation entries are passed to
	// the stage agents and the classifier.
	HistoryWindow int `yaml:"history_window"`

	// MinOnboardingMessages is the history size required before Onboarding
	// may be left (2 = one full exchange).
	MinOnboardingMessages int `yaml:"min_onboarding_messages"`

	// Per-call timeouts for the external collaborators.
	GenerationTimeout     time.Duration `yaml:"generation_timeout"`
	ClassificationTimeout time.Duration `yaml:"classification_timeout"`
	ResearchTimeout       time.Duration `yaml:"research_timeout"`

	// ResearchConcurrency caps parallel research queries in Validation.
	ResearchConcurrency int `yaml:"research_concurrency"`

	// MaxMessageLength rejects oversized user messages at the service layer.
	MaxMessageLength int `yaml:"max_message_length"`
}

// DefaultJourneyConfig returns the built-in journey defaults.
func DefaultJourneyConfig() *JourneyConfig {
	return &JourneyConfig{
		AdvanceThreshold:      0.7,
		HistoryWindow:         10,
		MinOnboardingMessages: 2,
		GenerationTimeout:     2 * time.Minute,
		ClassificationTimeout: 30 * time.Second,
		ResearchTimeout:       90 * time.Second,
		ResearchConcurrency:   3,
		MaxMessageLength:      10000,
	}
}
