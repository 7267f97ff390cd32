package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// GeminiAdapter implements CritiqueProvider for the Gemini CLI.
type GeminiAdapter struct {
	*BaseAdapter
}

// NewGeminiAdapter creates a new Gemini adapter.
func NewGeminiAdapter(cfg ProviderConfig) (core.CritiqueProvider, error) {
	if cfg.Path == "" {
		cfg.Path = "gemini"
	}
	cfg.Name = "gemini"

	logger := logging.NewNop().With("adapter", "gemini")
	return &GeminiAdapter{BaseAdapter: NewBaseAdapter(cfg, logger)}, nil
}

// Name returns the backend identifier.
func (g *GeminiAdapter) Name() string {
	return "gemini"
}

// Ping checks if the Gemini CLI is available.
func (g *GeminiAdapter) Ping(ctx context.Context) error {
	if err := g.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := g.ExecuteCommand(ctx, []string{"--version"}, "", 0)
	return err
}

// Critique produces a raw critique response.
func (g *GeminiAdapter) Critique(ctx context.Context, req core.CritiqueRequest) (string, error) {
	args := g.buildArgs(req.Model)
	args = append(args, joinPrompts(req.SystemPrompt, req.Prompt))

	result, err := g.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Synthesize produces a raw revised-spec response.
func (g *GeminiAdapter) Synthesize(ctx context.Context, req core.SynthesisRequest) (string, error) {
	args := g.buildArgs(req.Model)
	args = append(args, joinPrompts(req.SystemPrompt, req.Prompt))

	result, err := g.ExecuteCommand(ctx, args, "", req.Timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// buildArgs constructs CLI arguments.
func (g *GeminiAdapter) buildArgs(model string) []string {
	args := []string{}

	if m := g.resolveModel(model); m != "" {
		args = append(args, "--model", m)
	}

	// Headless auto-approval
	args = append(args, "--approval-mode", "yolo")

	return args
}

// joinPrompts folds a system prompt into the user prompt for CLIs
// without a dedicated system-prompt flag.
func joinPrompts(systemPrompt, prompt string) string {
	if systemPrompt == "" {
		return prompt
	}
	return "[System Instructions]\n" + systemPrompt + "\n\n[User Message]\n" + prompt
}

// Ensure GeminiAdapter implements core.CritiqueProvider
var _ core.CritiqueProvider = (*GeminiAdapter)(nil)
