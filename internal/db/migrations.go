package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := ensureOperationColumns(db); err != nil {
		return err
	}
	return nil
}

// ensureOperationColumns adds columns introduced after the first schema to
// databases created by older builds.
func ensureOperationColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(operations)")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	// close before ALTER; the pool holds a single connection
	_ = rows.Close()
	if !cols["fingerprint"] {
		if _, err := db.Exec("ALTER TABLE operations ADD COLUMN fingerprint TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	if !cols["package_count"] {
		if _, err := db.Exec("ALTER TABLE operations ADD COLUMN package_count INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}
