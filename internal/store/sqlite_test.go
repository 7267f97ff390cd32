package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	session := newTestSession("tasks/feature.md")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx, "tasks/feature.md")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil for saved session")
	}
	if loaded.ID != session.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, session.ID)
	}
	if len(loaded.Rounds) != 1 {
		t.Errorf("len(Rounds) = %d, want 1", len(loaded.Rounds))
	}
}

func TestSQLiteStore_SaveReplacesPriorRecord(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	session := newTestSession("x.md")
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	session.Status = core.SessionStatusCompleted
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, "x.md")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != core.SessionStatusCompleted {
		t.Errorf("Status = %q, want completed after re-save", loaded.Status)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := newSQLiteTestStore(t)

	session, err := store.Load(context.Background(), "missing.md")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if session != nil {
		t.Error("Load() of missing session should return nil")
	}
}

func TestSQLiteStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO debate_sessions (slug, task_id, status, updated_at, data)
		VALUES ('bad', 'bad.md', 'running', CURRENT_TIMESTAMP, '{not json')`)
	if err != nil {
		t.Fatal(err)
	}

	session, err := store.Load(ctx, "bad.md")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for corrupt record", err)
	}
	if session != nil {
		t.Error("corrupt record should load as nil")
	}
}

func TestSQLiteStore_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	if store.Exists(ctx, "x.md") {
		t.Error("Exists() = true before save")
	}

	if err := store.Save(ctx, newTestSession("x.md")); err != nil {
		t.Fatal(err)
	}
	if !store.Exists(ctx, "x.md") {
		t.Error("Exists() = false after save")
	}

	deleted, err := store.Delete(ctx, "x.md")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() = false for existing record")
	}

	deleted, err = store.Delete(ctx, "x.md")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("Delete() = true for missing record")
	}
}

func TestSQLiteStore_ListActive(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteTestStore(t)

	paused := newTestSession("paused.md")
	paused.Status = core.SessionStatusPaused
	if err := store.Save(ctx, paused); err != nil {
		t.Fatal(err)
	}

	running := newTestSession("running.md")
	running.Status = core.SessionStatusRunning
	if err := store.Save(ctx, running); err != nil {
		t.Fatal(err)
	}

	done := newTestSession("done.md")
	done.Status = core.SessionStatusCompleted
	if err := store.Save(ctx, done); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListActive() returned %d sessions, want 2", len(sessions))
	}
	for _, s := range sessions {
		if s.Status == core.SessionStatusCompleted {
			t.Errorf("ListActive() returned completed session %s", s.TaskID)
		}
	}
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	store, err := NewSQLiteStore(dbPath, nil)
	if err != nil {
		t.Fatalf("first open error = %v", err)
	}
	if err := store.Save(context.Background(), newTestSession("x.md")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening runs the migration again over an initialized database.
	store, err = NewSQLiteStore(dbPath, nil)
	if err != nil {
		t.Fatalf("second open error = %v", err)
	}
	defer store.Close() //nolint:errcheck

	loaded, err := store.Load(context.Background(), "x.md")
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Error("session lost across reopen")
	}
}
