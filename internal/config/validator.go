package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// MaxAgents caps how many agents a single debate can run concurrently.
const MaxAgents = 5

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateDebate(&cfg.Debate)
	v.validateBackends(&cfg.Backends)
	v.validateStore(&cfg.Store)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}

	if cfg.File != "" && !isValidPath(cfg.File) {
		v.addError("log.file", cfg.File, "invalid file path")
	}
}

func (v *Validator) validateDebate(cfg *DebateConfig) {
	// An empty roster falls back to the built-in default agents.
	if len(cfg.Agents) > MaxAgents {
		v.addError("debate.agents", len(cfg.Agents), fmt.Sprintf("at most %d agents allowed", MaxAgents))
	}

	for i, agent := range cfg.Agents {
		v.validateAgent(fmt.Sprintf("debate.agents[%d]", i), &agent)
	}

	if cfg.SynthesisAgent != nil {
		v.validateAgent("debate.synthesis_agent", cfg.SynthesisAgent)
	}

	if cfg.MaxRounds < 1 {
		v.addError("debate.max_rounds", cfg.MaxRounds, "must be at least 1")
	}

	if cfg.ConsensusThreshold <= 0 || cfg.ConsensusThreshold > 1 {
		v.addError("debate.consensus_threshold", cfg.ConsensusThreshold, "must be in (0, 1]")
	}

	if cfg.CallTimeout != "" {
		if _, err := time.ParseDuration(cfg.CallTimeout); err != nil {
			v.addError("debate.call_timeout", cfg.CallTimeout, "invalid duration format")
		}
	}
}

func (v *Validator) validateAgent(prefix string, agent *AgentSpec) {
	validBackends := map[string]bool{
		"claude": true, "gemini": true, "codex": true,
	}
	if !validBackends[agent.Backend] {
		v.addError(prefix+".backend", agent.Backend, "unknown backend")
	}

	if agent.Persona != "" && !core.ValidPersona(core.Persona(agent.Persona)) {
		v.addError(prefix+".persona", agent.Persona, "unknown persona")
	}
}

func (v *Validator) validateBackends(cfg *BackendsConfig) {
	if cfg.Claude.Path == "" {
		v.addError("backends.claude.path", cfg.Claude.Path, "path required")
	}
	if cfg.Gemini.Path == "" {
		v.addError("backends.gemini.path", cfg.Gemini.Path, "path required")
	}
	if cfg.Codex.Path == "" {
		v.addError("backends.codex.path", cfg.Codex.Path, "path required")
	}
}

func (v *Validator) validateStore(cfg *StoreConfig) {
	validBackends := map[string]bool{
		"": true, "json": true, "sqlite": true,
	}
	if !validBackends[cfg.Backend] {
		v.addError("store.backend", cfg.Backend, "must be one of: json, sqlite")
	}

	if cfg.Dir == "" {
		v.addError("store.dir", cfg.Dir, "directory required")
	} else if !isValidPath(cfg.Dir) {
		v.addError("store.dir", cfg.Dir, "invalid directory path")
	}
}

func isValidPath(path string) bool {
	dir := filepath.Dir(path)
	_, err := os.Stat(dir)
	return err == nil || os.IsNotExist(err)
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
