package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/VoxDroid/rpkgs/internal/config"
)

// OpenConfigured opens the history database cfg points at: db_path when
// set, otherwise the default location.
func OpenConfigured(cfg *config.Config) (*sql.DB, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

// Open ensures the parent directory exists, opens the SQLite database at
// dbPath, and creates the schema if it does not exist.
func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// one writer; the history journal is tiny
	db.SetMaxOpenConns(1)

	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
