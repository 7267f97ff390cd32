// Package cli implements CritiqueProvider adapters that shell out to AI
// CLI tools, plus the registry that selects one by backend identifier.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// ProviderConfig holds adapter configuration.
type ProviderConfig struct {
	Name    string
	Path    string
	Model   string
	Timeout time.Duration
}

// DefaultTimeout bounds a single provider call when neither the request
// nor the config specifies one.
const DefaultTimeout = 5 * time.Minute

// BaseAdapter provides common CLI execution functionality.
type BaseAdapter struct {
	config ProviderConfig
	logger *logging.Logger
}

// NewBaseAdapter creates a base adapter.
func NewBaseAdapter(cfg ProviderConfig, logger *logging.Logger) *BaseAdapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BaseAdapter{config: cfg, logger: logger}
}

// CommandResult holds the output of one CLI invocation.
type CommandResult struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ExecuteCommand runs the configured CLI with args and optional stdin.
// Failures are classified into the domain error taxonomy so the
// orchestrator can downgrade them uniformly.
func (b *BaseAdapter) ExecuteCommand(ctx context.Context, args []string, stdin string, timeout time.Duration) (*CommandResult, error) {
	if timeout == 0 {
		timeout = b.config.Timeout
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdPath := b.config.Path
	if cmdPath == "" {
		return nil, core.ErrValidation("NO_PATH", "adapter path not configured")
	}

	// Handle multi-word commands (e.g., "gh copilot")
	cmdParts := strings.Fields(cmdPath)
	if len(cmdParts) > 1 {
		cmdPath = cmdParts[0]
		args = append(cmdParts[1:], args...)
	}

	// #nosec G204 -- command path and args come from validated config
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, core.ErrTimeout(
				fmt.Sprintf("%s call exceeded %s", b.config.Name, timeout)).WithCause(err)
		}
		return nil, core.ErrAgent(core.CodeBackendFailed,
			fmt.Sprintf("%s exited with error: %s", b.config.Name, firstLine(stderr.String()))).WithCause(err)
	}

	return &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}, nil
}

// CheckAvailability verifies the CLI binary is on PATH.
func (b *BaseAdapter) CheckAvailability(_ context.Context) error {
	cmdPath := strings.Fields(b.config.Path)
	if len(cmdPath) == 0 {
		return core.ErrValidation("NO_PATH", "adapter path not configured")
	}
	if _, err := exec.LookPath(cmdPath[0]); err != nil {
		return core.ErrAgent(core.CodeBackendFailed,
			fmt.Sprintf("%s CLI not found in PATH", b.config.Name)).WithCause(err)
	}
	return nil
}

// Config returns the adapter configuration.
func (b *BaseAdapter) Config() ProviderConfig {
	return b.config
}

// resolveModel picks the request model if set, otherwise the configured one.
func (b *BaseAdapter) resolveModel(requested string) string {
	if requested != "" {
		return requested
	}
	return b.config.Model
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if s == "" {
		s = "(no stderr output)"
	}
	return s
}
