package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/rpkgs/internal/config"
)

func TestOpenConfiguredDefaultLocation(t *testing.T) {
	tmp := t.TempDir()
	// Ensure user home resolves to tmp for DBPath
	t.Setenv(config.EnvRPKGSHome, "")
	t.Setenv(config.EnvRPKGSDB, "")
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)

	dbPath, err := config.DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}

	db, err := OpenConfigured(config.Default())
	if err != nil {
		t.Fatalf("OpenConfigured() error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	var count int
	r := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name='operations'")
	if err := r.Scan(&count); err != nil {
		t.Fatalf("query schema: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected table 'operations' to exist")
	}

	// Basic smoke test: ensure we can insert an operation
	if _, err := db.Exec("INSERT INTO operations (operation, status, created_at) VALUES (?, ?, datetime('now'))", "refresh", "ok"); err != nil {
		t.Fatalf("insert operation failed: %v", err)
	}
}

func TestOpenConfiguredDBPath(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "journal.db")
	db, err := OpenConfigured(cfg)
	if err != nil {
		t.Fatalf("OpenConfigured: %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Fatalf("db file not created at db_path: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db, err := Open(t.TempDir() + "/h.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
}
