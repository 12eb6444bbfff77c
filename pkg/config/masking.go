package config

// MaskingPattern is a regex-based masking rule.
type MaskingPattern struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Description string `yaml:"description,omitempty"`
}

// MaskingConfig controls redaction of secrets pasted into founder messages
// before they reach an LLM or the session store.
type MaskingConfig struct {
	Enabled bool `yaml:"enabled"`

	// PatternGroups expand to built-in patterns and code maskers.
	PatternGroups []string `yaml:"pattern_groups,omitempty"`

	// Patterns names individual built-in patterns or code maskers.
	Patterns []string `yaml:"patterns,omitempty"`

	CustomPatterns []MaskingPattern `yaml:"custom_patterns,omitempty"`
}

// DefaultMaskingConfig returns the built-in masking defaults.
func DefaultMaskingConfig() *MaskingConfig {
	return &MaskingConfig{
		Enabled:       true,
		PatternGroups: []string{"secrets"},
	}
}
