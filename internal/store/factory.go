package store

import (
	"fmt"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// New creates a SessionStore of the given backend rooted at dir.
// Supported backends: "json" (default) and "sqlite".
func New(backend, dir string, logger *logging.Logger) (core.SessionStore, error) {
	switch backend {
	case "", "json":
		return NewJSONStore(dir, logger), nil
	case "sqlite":
		return NewSQLiteStore(filepath.Join(dir, "sessions.db"), logger)
	default:
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("unknown store backend %q (expected json or sqlite)", backend))
	}
}

// Closeable is an optional interface for stores that need cleanup.
type Closeable interface {
	Close() error
}

// CloseStore safely closes a SessionStore if it implements Closeable.
func CloseStore(s core.SessionStore) error {
	if closeable, ok := s.(Closeable); ok {
		return closeable.Close()
	}
	return nil
}
