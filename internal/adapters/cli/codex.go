package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// CodexAdapter implements CritiqueProvider for the Codex CLI.
type CodexAdapter struct {
	*BaseAdapter
}

// NewCodexAdapter creates a new Codex adapter.
func NewCodexAdapter(cfg ProviderConfig) (core.CritiqueProvider, error) {
	if cfg.Path == "" {
		cfg.Path = "codex"
	}
	cfg.Name = "codex"

	logger := logging.NewNop().With("adapter", "codex")
	return &CodexAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the backend identifier.
func (c *CodexAdapter) Name() string {
	return "codex"
}

// Ping checks if the Codex CLI is available.
func (c *CodexAdapter) Ping(ctx context.Context) error {
	if err := c.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := c.ExecuteCommand(ctx, []string{"--version"}, "", 0)
	return err
}

// Critique produces a raw critique response.
func (c *CodexAdapter) Critique(ctx context.Context, req core.CritiqueRequest) (string, error) {
	args := c.buildArgs(req.Model)
	// Codex CLI has no --system-prompt, so prepend to the user prompt
	args = append(args, joinPrompts(req.SystemPrompt, req.Prompt))

	result, err := c.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Synthesize produces a raw revised-spec response.
func (c *CodexAdapter) Synthesize(ctx context.Context, req core.SynthesisRequest) (string, error) {
	args := c.buildArgs(req.Model)
	args = append(args, joinPrompts(req.SystemPrompt, req.Prompt))

	result, err := c.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// buildArgs constructs CLI arguments.
func (c *CodexAdapter) buildArgs(model string) []string {
	args := []string{"exec", "--skip-git-repo-check"}

	// Headless approvals/sandbox via config overrides
	args = append(args,
		"-c", `approval_policy="never"`,
		"-c", `sandbox_mode="read-only"`,
	)

	if m := c.resolveModel(model); m != "" {
		args = append(args, "--model", m)
	}

	return args
}

// Ensure CodexAdapter implements core.CritiqueProvider
var _ core.CritiqueProvider = (*CodexAdapter)(nil)
