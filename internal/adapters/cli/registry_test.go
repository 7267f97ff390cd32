package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"claude", "gemini", "codex"} {
		assert.True(t, r.Has(name), "builtin %s should be registered", name)
	}
	assert.False(t, r.Has("aider"))
	assert.Len(t, r.List(), 3)
}

func TestRegistry_GetCreatesAndCaches(t *testing.T) {
	r := NewRegistry()

	first, err := r.Get("claude")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "claude", first.Name())

	second, err := r.Get("claude")
	require.NoError(t, err)
	assert.Same(t, first, second, "Get should cache provider instances")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("unknown-backend")
	require.Error(t, err)

	var domainErr *core.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, core.ErrCatNotFound, domainErr.Category)
}

func TestRegistry_ConfigureClearsCache(t *testing.T) {
	r := NewRegistry()

	first, err := r.Get("gemini")
	require.NoError(t, err)

	r.Configure("gemini", ProviderConfig{Name: "gemini", Path: "/opt/gemini", Timeout: time.Minute})

	second, err := r.Get("gemini")
	require.NoError(t, err)
	assert.NotSame(t, first, second, "Configure should force provider re-creation")

	adapter := second.(*GeminiAdapter)
	assert.Equal(t, "/opt/gemini", adapter.Config().Path)
}

func TestRegistry_RegisterCustomFactory(t *testing.T) {
	r := NewRegistry()

	r.RegisterFactory("custom", func(cfg ProviderConfig) (core.CritiqueProvider, error) {
		return NewClaudeAdapter(cfg)
	})

	assert.True(t, r.Has("custom"))
	provider, err := r.Get("custom")
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestRegistry_PingAll(t *testing.T) {
	r := NewRegistry()
	// "echo" stands in for a backend binary that exists and exits zero.
	r.Configure("claude", ProviderConfig{Name: "claude", Path: "echo"})
	r.Configure("gemini", ProviderConfig{Name: "gemini", Path: "definitely-not-a-binary-xyz"})

	results := r.PingAll(context.Background())

	require.Len(t, results, 2)
	assert.NoError(t, results["claude"])
	assert.Error(t, results["gemini"])
}
