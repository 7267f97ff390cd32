package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// SQLiteStore implements SessionStore with SQLite storage.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
	logger *logging.Logger
}

// NewSQLiteStore creates a SQLite session store at dbPath.
func NewSQLiteStore(dbPath string, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{dbPath: dbPath, db: db, logger: logger}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(migrationV1); err != nil {
		return fmt.Errorf("applying initial schema: %w", err)
	}
	return nil
}

// Save persists a session snapshot, replacing any prior record.
func (s *SQLiteStore) Save(ctx context.Context, session *core.DebateSession) error {
	if session == nil {
		return core.ErrValidation(core.CodeInvalidState, "cannot save nil session")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO debate_sessions (slug, task_id, status, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			task_id = excluded.task_id,
			status = excluded.status,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		Slug(session.TaskID), session.TaskID, string(session.Status), time.Now().UTC(), string(data))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load retrieves a session by task identifier. Missing or corrupt records
// return nil; corruption is logged and treated as absent.
func (s *SQLiteStore) Load(ctx context.Context, taskID string) (*core.DebateSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM debate_sessions WHERE slug = ?", Slug(taskID)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}

	var session core.DebateSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.logger.Warn("discarding corrupt session record", "task_id", taskID, "error", err)
		return nil, nil
	}
	return &session, nil
}

// Delete removes a stored session. Reports whether a record existed.
func (s *SQLiteStore) Delete(ctx context.Context, taskID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM debate_sessions WHERE slug = ?", Slug(taskID))
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	return n > 0, nil
}

// Exists checks if a session record is present for the task.
func (s *SQLiteStore) Exists(ctx context.Context, taskID string) bool {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM debate_sessions WHERE slug = ?", Slug(taskID)).Scan(&one)
	return err == nil
}

// ListActive returns all stored sessions whose status is not completed.
// Individually corrupt records are logged and skipped.
func (s *SQLiteStore) ListActive(ctx context.Context) ([]*core.DebateSession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT slug, data FROM debate_sessions WHERE status != ? ORDER BY updated_at DESC",
		string(core.SessionStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*core.DebateSession
	for rows.Next() {
		var slug, data string
		if err := rows.Scan(&slug, &data); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		var session core.DebateSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			s.logger.Warn("skipping corrupt session record", "slug", slug, "error", err)
			continue
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return sessions, nil
}

// Verify that SQLiteStore implements core.SessionStore.
var _ core.SessionStore = (*SQLiteStore)(nil)
