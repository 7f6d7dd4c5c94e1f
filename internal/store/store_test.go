package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates a new Store backed by a database in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"runs", "events", "bindings", "settings"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}

	for _, idx := range []string{"idx_events_run_id", "idx_events_created_at"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			idx,
		).Scan(&name)
		if err != nil {
			t.Errorf("index %q should exist after migrations: %v", idx, err)
		}
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Settings().Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if v, err := s.Settings().Get("k"); err != nil || v != "v" {
		t.Errorf("Get() = %q, %v; want v", v, err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fkEnabled int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("failed to check foreign keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys should be enabled")
	}

	err := s.Events().Create(&Event{ID: "e1", RunID: "missing-run", Action: "click"})
	if err == nil {
		t.Error("expected foreign key violation for unknown run")
	}
}

func TestRunRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := &Run{ID: "run-1", SurfaceWidth: 1280, SurfaceHeight: 720}
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt should be set after create")
	}

	got, err := repo.GetByID("run-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StoppedAt != nil {
		t.Error("new run should not be stopped")
	}
	if got.SurfaceWidth != 1280 || got.SurfaceHeight != 720 {
		t.Errorf("surface = %vx%v, want 1280x720", got.SurfaceWidth, got.SurfaceHeight)
	}

	stopAt := time.Now().Add(time.Minute)
	if err := repo.Stop("run-1", stopAt); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	got, _ = repo.GetByID("run-1")
	if got.StoppedAt == nil {
		t.Fatal("StoppedAt should be set after Stop")
	}

	if err := repo.Stop("nope", stopAt); err != ErrNotFound {
		t.Errorf("Stop(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID("nope"); err != ErrNotFound {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}

	repo.Create(&Run{ID: "run-2", SurfaceWidth: 1, SurfaceHeight: 1, StartedAt: run.StartedAt.Add(time.Second)})
	runs, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" {
		t.Errorf("List() = %d runs, first %q; want 2 with run-2 first", len(runs), runs[0].ID)
	}
}
