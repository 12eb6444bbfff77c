package masking

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// CompiledPattern holds a pre-compiled regex pattern with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Description string
}

// resolvedPatterns holds the resolved set of maskers and patterns for a masking operation.
type resolvedPatterns struct {
	codeMaskerNames []string           // Names of code-based maskers to apply
	regexPatterns   []*CompiledPattern // Compiled regex patterns to apply
}

// compileBuiltinPatterns compiles all built-in regex patterns from config.
// Invalid patterns are logged and skipped.
func (s *Service) compileBuiltinPatterns() {
	for name, pattern := range config.GetBuiltinConfig().MaskingPatterns {
		compiled, err := compilePattern(name, pattern)
		if err != nil {
			slog.Error("Failed to compile built-in masking pattern, skipping",
				"pattern", name, "error", err)
			continue
		}
		s.patterns[name] = compiled
	}
}

func compilePattern(name string, pattern config.MaskingPattern) (*CompiledPattern, error) {
	re, err := regexp.Compile(pattern.Pattern)
	if err != nil {
		return nil, err
	}
	return &CompiledPattern{
		Name:        name,
		Regex:       re,
		Replacement: pattern.Replacement,
		Description: pattern.Description,
	}, nil
}

// resolvePatterns expands a MaskingConfig into a deduplicated resolvedPatterns.
// Custom patterns are keyed as "custom:{index}" and applied last.
func (s *Service) resolvePatterns(cfg *config.MaskingConfig) *resolvedPatterns {
	seen := make(map[string]bool)
	resolved := &resolvedPatterns{}
	builtin := config.GetBuiltinConfig()

	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		s.addToResolved(resolved, name, builtin)
	}

	// 1. Expand pattern_groups → individual pattern names
	for _, groupName := range cfg.PatternGroups {
		groupPatterns, ok := builtin.PatternGroups[groupName]
		if !ok {
			slog.Warn("Unknown masking pattern group, skipping", "group", groupName)
			continue
		}
		for _, name := range groupPatterns {
			add(name)
		}
	}

	// 2. Add individual patterns from cfg.Patterns
	for _, name := range cfg.Patterns {
		add(name)
	}

	// 3. Compile and add custom patterns
	for i, pattern := range cfg.CustomPatterns {
		name := fmt.Sprintf("custom:%d", i)
		compiled, err := compilePattern(name, pattern)
		if err != nil {
			slog.Error("Failed to compile custom masking pattern, skipping",
				"pattern", name, "error", err)
			continue
		}
		s.patterns[name] = compiled
		resolved.regexPatterns = append(resolved.regexPatterns, compiled)
	}

	return resolved
}

// addToResolved adds a pattern name to the resolved set, categorizing it as
// either a code masker or a regex pattern.
func (s *Service) addToResolved(resolved *resolvedPatterns, name string, builtin *config.BuiltinConfig) {
	if slices.Contains(builtin.CodeMaskers, name) {
		resolved.codeMaskerNames = append(resolved.codeMaskerNames, name)
		return
	}

	if cp, ok := s.patterns[name]; ok {
		resolved.regexPatterns = append(resolved.regexPatterns, cp)
	}
}
