package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/adapters/cli"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/config"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/store"
)

// runtimeDeps holds the shared dependencies every command needs.
type runtimeDeps struct {
	Config      *config.Config
	Logger      *logging.Logger
	Registry    *cli.Registry
	Store       core.SessionStore
	CallTimeout time.Duration
}

// initRuntime loads configuration, builds the logger, configures the
// provider registry from it, and opens the session store.
func initRuntime() (*runtimeDeps, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	callTimeout := cfg.Debate.CallTimeoutDuration()
	if callTimeout == 0 {
		callTimeout = cli.DefaultTimeout
	}

	registry := cli.NewRegistry()
	registry.Configure("claude", cli.ProviderConfig{
		Name:    "claude",
		Path:    cfg.Backends.Claude.Path,
		Model:   cfg.Backends.Claude.Model,
		Timeout: callTimeout,
	})
	registry.Configure("gemini", cli.ProviderConfig{
		Name:    "gemini",
		Path:    cfg.Backends.Gemini.Path,
		Model:   cfg.Backends.Gemini.Model,
		Timeout: callTimeout,
	})
	registry.Configure("codex", cli.ProviderConfig{
		Name:    "codex",
		Path:    cfg.Backends.Codex.Path,
		Model:   cfg.Backends.Codex.Model,
		Timeout: callTimeout,
	})

	sessionStore, err := store.New(cfg.Store.Backend, cfg.Store.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	return &runtimeDeps{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Store:       sessionStore,
		CallTimeout: callTimeout,
	}, nil
}

// Close releases runtime resources.
func (d *runtimeDeps) Close() error {
	return store.CloseStore(d.Store)
}

// debateConfig merges the file config with command-line overrides into
// the core debate config, falling back to the built-in agent roster when
// none is configured.
func (d *runtimeDeps) debateConfig() core.DebateConfig {
	cfg := d.Config.Debate.ToDebateConfig()
	if len(cfg.Agents) == 0 {
		def := core.DefaultDebateConfig()
		cfg.Agents = def.Agents
	}
	return cfg
}
