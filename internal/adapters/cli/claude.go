package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// ClaudeAdapter implements CritiqueProvider for the Claude CLI.
type ClaudeAdapter struct {
	*BaseAdapter
}

// NewClaudeAdapter creates a new Claude adapter.
func NewClaudeAdapter(cfg ProviderConfig) (core.CritiqueProvider, error) {
	if cfg.Path == "" {
		cfg.Path = "claude"
	}
	cfg.Name = "claude"

	logger := logging.NewNop().With("adapter", "claude")
	return &ClaudeAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the backend identifier.
func (c *ClaudeAdapter) Name() string {
	return "claude"
}

// Ping checks if the Claude CLI is available.
func (c *ClaudeAdapter) Ping(ctx context.Context) error {
	if err := c.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := c.ExecuteCommand(ctx, []string{"--version"}, "", 0)
	return err
}

// Critique produces a raw critique response.
func (c *ClaudeAdapter) Critique(ctx context.Context, req core.CritiqueRequest) (string, error) {
	args := c.buildArgs(req.SystemPrompt, req.Model)
	args = append(args, req.Prompt)

	result, err := c.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Synthesize produces a raw revised-spec response.
func (c *ClaudeAdapter) Synthesize(ctx context.Context, req core.SynthesisRequest) (string, error) {
	args := c.buildArgs(req.SystemPrompt, req.Model)
	args = append(args, req.Prompt)

	result, err := c.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// buildArgs constructs CLI arguments.
func (c *ClaudeAdapter) buildArgs(systemPrompt, model string) []string {
	// Print mode for non-interactive use
	args := []string{"--print"}

	if m := c.resolveModel(model); m != "" {
		args = append(args, "--model", m)
	}
	if systemPrompt != "" {
		args = append(args, "--system-prompt", systemPrompt)
	}

	// Auto-accept for non-interactive mode
	args = append(args, "--dangerously-skip-permissions")

	return args
}

// Ensure ClaudeAdapter implements core.CritiqueProvider
var _ core.CritiqueProvider = (*ClaudeAdapter)(nil)
