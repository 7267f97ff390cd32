package logging

import (
	"regexp"
)

// Sanitizer redacts credentials from text before it reaches logs or
// persisted session state. Raw backend output can echo API keys when a
// CLI misconfiguration makes the underlying tool print its environment.
type Sanitizer struct {
	patterns []*regexp.Regexp
	redacted string
}

// NewSanitizer creates a sanitizer with the default pattern set.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: defaultPatterns(),
		redacted: "[REDACTED]",
	}
}

func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// Anthropic (claude CLI); must precede the generic sk- pattern.
		`sk-ant-[a-zA-Z0-9-]{40,}`,
		// OpenAI (codex CLI)
		`sk-[A-Za-z0-9]{20,}`,
		// Google AI (gemini CLI)
		`AIza[a-zA-Z0-9_-]{35}`,
		// Generic bearer tokens
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		// Generic key/token/secret assignments
		`(?i)(api[_-]?key|token|secret)["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Sanitize redacts credentials from a string.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllString(result, s.redacted)
	}
	return result
}

// AddPattern registers an additional redaction pattern.
func (s *Sanitizer) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, re)
	return nil
}

var defaultSanitizer = NewSanitizer()

// Sanitize redacts credentials using the default sanitizer.
func Sanitize(input string) string {
	return defaultSanitizer.Sanitize(input)
}
