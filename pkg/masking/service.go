// Package masking redacts secrets that founders paste into chat messages
// before the text reaches an LLM provider or the session store.
package masking

import (
	"log/slog"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// Service applies the configured masking patterns to founder messages.
// Created once at startup. Safe for concurrent use.
type Service struct {
	enabled     bool
	patterns    map[string]*CompiledPattern // Built-in + custom compiled patterns
	codeMaskers map[string]Masker           // Registered code-based maskers
	resolved    *resolvedPatterns           // Active set, resolved once from config
}

// NewService creates a masking service from cfg. A nil or disabled cfg
// yields a pass-through service. Invalid patterns are logged and skipped.
func NewService(cfg *config.MaskingConfig) *Service {
	s := &Service{
		patterns:    make(map[string]*CompiledPattern),
		codeMaskers: make(map[string]Masker),
		resolved:    &resolvedPatterns{},
	}
	if cfg == nil || !cfg.Enabled {
		slog.Info("Message masking disabled")
		return s
	}
	s.enabled = true

	// 1. Compile all built-in regex patterns
	s.compileBuiltinPatterns()

	// 2. Register code-based maskers
	s.registerMasker(&CredentialDocumentMasker{})

	// 3. Resolve groups, names and custom patterns into the active set
	s.resolved = s.resolvePatterns(cfg)

	slog.Info("Message masking initialized",
		"compiled_patterns", len(s.patterns),
		"active_patterns", len(s.resolved.regexPatterns),
		"code_maskers", len(s.resolved.codeMaskerNames))

	return s
}

// Enabled reports whether masking is active.
func (s *Service) Enabled() bool {
	return s.enabled
}

// MaskMessage returns text with every configured secret pattern replaced.
func (s *Service) MaskMessage(text string) string {
	if !s.enabled || text == "" {
		return text
	}
	masked := s.applyMasking(text, s.resolved)
	if masked != text {
		slog.Debug("Masked secrets in founder message")
	}
	return masked
}

// applyMasking applies code-based maskers then regex patterns to content.
func (s *Service) applyMasking(content string, resolved *resolvedPatterns) string {
	masked := content

	// Phase 1: Code-based maskers (structural awareness)
	for _, maskerName := range resolved.codeMaskerNames {
		masker, ok := s.codeMaskers[maskerName]
		if !ok {
			continue
		}
		if masker.AppliesTo(masked) {
			masked = masker.Mask(masked)
		}
	}

	// Phase 2: Regex patterns (general sweep)
	for _, pattern := range resolved.regexPatterns {
		masked = pattern.Regex.ReplaceAllString(masked, pattern.Replacement)
	}

	return masked
}

// registerMasker registers a code-based masker by its name.
func (s *Service) registerMasker(m Masker) {
	s.codeMaskers[m.Name()] = m
}
