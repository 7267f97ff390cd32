package config

import (
	"strings"
	"testing"
)

// validConfig returns a valid configuration for testing.
func validConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Debate: DebateConfig{
			Agents: []AgentSpec{
				{Backend: "claude", Persona: "security"},
				{Backend: "gemini", Persona: "performance"},
			},
			MaxRounds:          3,
			ConsensusThreshold: 0.67,
			SynthesisEnabled:   true,
			CallTimeout:        "5m",
		},
		Backends: BackendsConfig{
			Claude: BackendConfig{Path: "claude"},
			Gemini: BackendConfig{Path: "gemini"},
			Codex:  BackendConfig{Path: "codex"},
		},
		Store: StoreConfig{
			Backend: "json",
			Dir:     ".debate/sessions",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := ValidateConfig(validConfig()); err != nil {
		t.Errorf("ValidateConfig() error = %v, want nil", err)
	}
}

func TestValidate_EmptyAgentsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Debate.Agents = nil
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig() error = %v, empty roster should be valid", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Log.Level = "verbose" },
			field:  "log.level",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Log.Format = "xml" },
			field:  "log.format",
		},
		{
			name: "too many agents",
			mutate: func(c *Config) {
				c.Debate.Agents = make([]AgentSpec, MaxAgents+1)
				for i := range c.Debate.Agents {
					c.Debate.Agents[i] = AgentSpec{Backend: "claude", Persona: "qa"}
				}
			},
			field: "debate.agents",
		},
		{
			name:   "unknown backend",
			mutate: func(c *Config) { c.Debate.Agents[0].Backend = "hal9000" },
			field:  ".backend",
		},
		{
			name:   "unknown persona",
			mutate: func(c *Config) { c.Debate.Agents[0].Persona = "astrologer" },
			field:  ".persona",
		},
		{
			name:   "zero rounds",
			mutate: func(c *Config) { c.Debate.MaxRounds = 0 },
			field:  "debate.max_rounds",
		},
		{
			name:   "threshold zero",
			mutate: func(c *Config) { c.Debate.ConsensusThreshold = 0 },
			field:  "debate.consensus_threshold",
		},
		{
			name:   "threshold above one",
			mutate: func(c *Config) { c.Debate.ConsensusThreshold = 1.5 },
			field:  "debate.consensus_threshold",
		},
		{
			name:   "bad call timeout",
			mutate: func(c *Config) { c.Debate.CallTimeout = "five minutes" },
			field:  "debate.call_timeout",
		},
		{
			name:   "bad synthesis agent",
			mutate: func(c *Config) { c.Debate.SynthesisAgent = &AgentSpec{Backend: "hal9000"} },
			field:  "debate.synthesis_agent.backend",
		},
		{
			name:   "missing backend path",
			mutate: func(c *Config) { c.Backends.Claude.Path = "" },
			field:  "backends.claude.path",
		},
		{
			name:   "unknown store backend",
			mutate: func(c *Config) { c.Store.Backend = "postgres" },
			field:  "store.backend",
		},
		{
			name:   "missing store dir",
			mutate: func(c *Config) { c.Store.Dir = "" },
			field:  "store.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if err == nil {
				t.Fatal("ValidateConfig() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention field %q", err.Error(), tt.field)
			}
		})
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	cfg.Debate.MaxRounds = -1
	cfg.Store.Dir = ""

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("ValidateConfig() = nil, want error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Errorf("len(errors) = %d, want 3: %v", len(verrs), verrs)
	}
}

func TestValidate_SynthesisAgentPersonaOptional(t *testing.T) {
	cfg := validConfig()
	cfg.Debate.SynthesisAgent = &AgentSpec{Backend: "claude"}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig() error = %v, synthesis agent persona should be optional", err)
	}
}
