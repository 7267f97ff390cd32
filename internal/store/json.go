package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// JSONStore implements SessionStore with one JSON file per session.
type JSONStore struct {
	dir    string
	logger *logging.Logger
}

// NewJSONStore creates a JSON session store rooted at dir.
func NewJSONStore(dir string, logger *logging.Logger) *JSONStore {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JSONStore{dir: dir, logger: logger}
}

// sessionEnvelope wraps a session with integrity metadata.
type sessionEnvelope struct {
	Version   int                 `json:"version"`
	Checksum  string              `json:"checksum"`
	UpdatedAt time.Time           `json:"updated_at"`
	Session   *core.DebateSession `json:"session"`
}

func (s *JSONStore) path(taskID string) string {
	return filepath.Join(s.dir, Slug(taskID)+".json")
}

// Save persists a session snapshot atomically.
func (s *JSONStore) Save(_ context.Context, session *core.DebateSession) error {
	if session == nil {
		return core.ErrValidation(core.CodeInvalidState, "cannot save nil session")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	hash := sha256.Sum256(sessionBytes)
	envelope := sessionEnvelope{
		Version:   1,
		Checksum:  hex.EncodeToString(hash[:]),
		UpdatedAt: time.Now(),
		Session:   session,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}

	if err := atomicWriteFile(s.path(session.TaskID), data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Load retrieves a session by task identifier. Missing or corrupt records
// return nil; corruption is logged and treated as absent.
func (s *JSONStore) Load(_ context.Context, taskID string) (*core.DebateSession, error) {
	session, err := s.loadFromPath(s.path(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.Warn("discarding corrupt session record", "task_id", taskID, "error", err)
		return nil, nil
	}
	return session, nil
}

func (s *JSONStore) loadFromPath(path string) (*core.DebateSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshaling envelope: %w", err)
	}
	if envelope.Session == nil {
		return nil, core.ErrState(core.CodeStateCorrupted, "envelope has no session")
	}

	sessionBytes, err := json.Marshal(envelope.Session)
	if err != nil {
		return nil, fmt.Errorf("marshaling session for checksum: %w", err)
	}
	hash := sha256.Sum256(sessionBytes)
	if hex.EncodeToString(hash[:]) != envelope.Checksum {
		return nil, core.ErrState(core.CodeStateCorrupted, "checksum mismatch")
	}

	return envelope.Session, nil
}

// Delete removes a stored session. Reports whether a record existed.
func (s *JSONStore) Delete(_ context.Context, taskID string) (bool, error) {
	err := os.Remove(s.path(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting session file: %w", err)
	}
	return true, nil
}

// Exists checks if a session record is present for the task.
func (s *JSONStore) Exists(_ context.Context, taskID string) bool {
	_, err := os.Stat(s.path(taskID))
	return err == nil
}

// ListActive returns all stored sessions whose status is not completed.
// Individually corrupt records are logged and skipped.
func (s *JSONStore) ListActive(_ context.Context) ([]*core.DebateSession, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var sessions []*core.DebateSession
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := s.loadFromPath(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping corrupt session record", "file", entry.Name(), "error", err)
			continue
		}
		if session.Status != core.SessionStatusCompleted {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// Verify that JSONStore implements core.SessionStore.
var _ core.SessionStore = (*JSONStore)(nil)
