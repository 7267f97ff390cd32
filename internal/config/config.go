package config

import (
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// Config holds all application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Debate   DebateConfig   `mapstructure:"debate"`
	Backends BackendsConfig `mapstructure:"backends"`
	Store    StoreConfig    `mapstructure:"store"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// DebateConfig configures debate execution.
type DebateConfig struct {
	Agents             []AgentSpec `mapstructure:"agents"`
	MaxRounds          int         `mapstructure:"max_rounds"`
	ConsensusThreshold float64     `mapstructure:"consensus_threshold"`
	SynthesisEnabled   bool        `mapstructure:"synthesis_enabled"`
	SynthesisAgent     *AgentSpec  `mapstructure:"synthesis_agent"`
	CallTimeout        string      `mapstructure:"call_timeout"`
}

// AgentSpec configures one debate participant.
type AgentSpec struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
	Persona string `mapstructure:"persona"`
}

// BackendsConfig configures the CLI backends.
type BackendsConfig struct {
	Claude BackendConfig `mapstructure:"claude"`
	Gemini BackendConfig `mapstructure:"gemini"`
	Codex  BackendConfig `mapstructure:"codex"`
}

// BackendConfig configures a single CLI backend.
type BackendConfig struct {
	Path  string `mapstructure:"path"`
	Model string `mapstructure:"model"`
}

// StoreConfig configures session persistence.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// ToDebateConfig converts the file representation into the core type.
func (c *DebateConfig) ToDebateConfig() core.DebateConfig {
	agents := make([]core.AgentSpec, 0, len(c.Agents))
	for _, a := range c.Agents {
		agents = append(agents, core.AgentSpec{
			Backend: a.Backend,
			Model:   a.Model,
			Persona: core.Persona(a.Persona),
		})
	}

	var synthAgent *core.AgentSpec
	if c.SynthesisAgent != nil {
		synthAgent = &core.AgentSpec{
			Backend: c.SynthesisAgent.Backend,
			Model:   c.SynthesisAgent.Model,
			Persona: core.Persona(c.SynthesisAgent.Persona),
		}
	}

	return core.DebateConfig{
		Agents:             agents,
		MaxRounds:          c.MaxRounds,
		ConsensusThreshold: c.ConsensusThreshold,
		SynthesisEnabled:   c.SynthesisEnabled,
		SynthesisAgent:     synthAgent,
	}
}

// CallTimeoutDuration parses the per-call timeout, falling back to zero
// on empty (callers substitute their own default).
func (c *DebateConfig) CallTimeoutDuration() time.Duration {
	if c.CallTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.CallTimeout)
	if err != nil {
		return 0
	}
	return d
}
