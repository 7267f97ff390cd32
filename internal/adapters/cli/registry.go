package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// ProviderFactory creates a provider from configuration.
type ProviderFactory func(cfg ProviderConfig) (core.CritiqueProvider, error)

// Registry manages available CLI providers. Adding a backend means
// registering a factory here; the orchestrator never changes.
type Registry struct {
	factories map[string]ProviderFactory
	providers map[string]core.CritiqueProvider
	configs   map[string]ProviderConfig
	mu        sync.RWMutex
}

// NewRegistry creates a provider registry with the built-in backends.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]ProviderFactory),
		providers: make(map[string]core.CritiqueProvider),
		configs:   make(map[string]ProviderConfig),
	}
	r.registerBuiltins()
	return r
}

// registerBuiltins registers the default provider factories.
func (r *Registry) registerBuiltins() {
	r.RegisterFactory("claude", NewClaudeAdapter)
	r.RegisterFactory("gemini", NewGeminiAdapter)
	r.RegisterFactory("codex", NewCodexAdapter)
}

// RegisterFactory registers a factory for a backend.
func (r *Registry) RegisterFactory(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Register adds a provider directly to the registry.
func (r *Registry) Register(name string, provider core.CritiqueProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// Configure sets configuration for a backend.
func (r *Registry) Configure(name string, cfg ProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
	// Clear cached provider to force re-creation
	delete(r.providers, name)
}

// Get returns a provider by backend identifier, creating it if necessary.
func (r *Registry) Get(name string) (core.CritiqueProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, core.ErrNotFound("backend", name)
	}

	cfg, ok := r.configs[name]
	if !ok {
		cfg = ProviderConfig{Name: name, Timeout: DefaultTimeout}
	}

	provider, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating provider %s: %w", name, err)
	}

	r.providers[name] = provider
	return provider, nil
}

// List returns names of all registered backends.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Has checks if a backend is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// PingAll checks availability of all configured backends concurrently.
func (r *Registry) PingAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	r.mu.RUnlock()

	results := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			provider, err := r.Get(name)
			if err == nil {
				err = provider.Ping(ctx)
			}
			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return results
}

// Ensure Registry implements core.ProviderRegistry
var _ core.ProviderRegistry = (*Registry)(nil)
