package config

// Defaults contains system-wide default configurations.
// These values are used when a stage or collaborator doesn't specify its own.
type Defaults struct {
	// LLM provider used by every collaborator without an explicit provider
	LLMProvider string `yaml:"llm_provider,omitempty"`
}

// CollaboratorConfig configures a non-stage collaborator (classifier, research).
type CollaboratorConfig struct {
	LLMProvider string `yaml:"llm_provider,omitempty"`
}
