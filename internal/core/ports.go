package core

import (
	"context"
	"time"
)

// CritiqueRequest carries one critique call to a provider backend.
// Prompts are rendered by the caller; providers only transport them.
type CritiqueRequest struct {
	Persona      Persona
	Model        string
	SystemPrompt string
	Prompt       string
	Timeout      time.Duration
}

// SynthesisRequest carries one synthesis call to a provider backend.
type SynthesisRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Timeout      time.Duration
}

// CritiqueProvider is the capability contract for a text-generation backend:
// given rendered prompts, produce a raw response. Implementations live in
// internal/adapters; the orchestrator never depends on a specific protocol.
type CritiqueProvider interface {
	// Name returns the backend identifier (e.g., "claude", "gemini").
	Name() string

	// Ping checks if the backend is available and authenticated.
	Ping(ctx context.Context) error

	// Critique produces a raw critique response for a spec.
	Critique(ctx context.Context, req CritiqueRequest) (string, error)

	// Synthesize produces a raw revised-spec response.
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}

// ProviderRegistry resolves backend identifiers to providers. Unknown
// backends surface as an error the orchestrator downgrades to a degraded
// critique.
type ProviderRegistry interface {
	// Get retrieves a provider by backend identifier.
	Get(name string) (CritiqueProvider, error)

	// List returns all registered backend identifiers.
	List() []string

	// Has checks if a backend is registered.
	Has(name string) bool
}

// SessionStore persists debate sessions keyed by task identifier.
// Stores only ever receive serialized snapshots; they never mutate
// orchestrator state.
type SessionStore interface {
	// Save persists a session snapshot.
	Save(ctx context.Context, session *DebateSession) error

	// Load retrieves a session by task identifier. Missing or corrupt
	// records return (nil, nil); corruption is logged, never raised.
	Load(ctx context.Context, taskID string) (*DebateSession, error)

	// Delete removes a stored session. Reports whether a record existed.
	Delete(ctx context.Context, taskID string) (bool, error)

	// Exists checks if a session is stored for the task.
	Exists(ctx context.Context, taskID string) bool

	// ListActive returns sessions whose status is not completed,
	// skipping individually corrupt records.
	ListActive(ctx context.Context) ([]*DebateSession, error)
}
