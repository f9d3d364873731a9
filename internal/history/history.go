package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// Repository reads and writes journal entries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts e and returns its id. CreatedAt is assigned by the database.
func (r *Repository) Record(e Entry) (int64, error) {
	op := strings.TrimSpace(e.Operation)
	if op == "" {
		return 0, fmt.Errorf("invalid entry: operation cannot be empty")
	}
	status := e.Status
	if status == "" {
		status = StatusOK
	}
	pkgs := e.Packages
	if pkgs == nil {
		pkgs = []string{}
	}
	pkgJSON, err := json.Marshal(pkgs)
	if err != nil {
		return 0, fmt.Errorf("marshal packages: %w", err)
	}
	res, err := r.db.Exec(`INSERT INTO operations
		(operation, packages, status, detail, package_count, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, strftime('%Y-%m-%d %H:%M:%f', 'now'))`,
		op, string(pkgJSON), status, e.Detail, e.PackageCount, e.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("insert operation: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (r *Repository) List(limit int) ([]Entry, error) {
	q := `SELECT id, operation, packages, status, detail, package_count, fingerprint, created_at
		FROM operations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var e Entry
		var pkgJSON string
		if err := rows.Scan(&e.ID, &e.Operation, &pkgJSON, &e.Status, &e.Detail, &e.PackageCount, &e.Fingerprint, &e.CreatedAt); err != nil {
			return nil, err
		}
		if pkgJSON != "" {
			if err := json.Unmarshal([]byte(pkgJSON), &e.Packages); err != nil {
				return nil, fmt.Errorf("unmarshal packages: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastRefresh returns the newest successful refresh, or nil.
func (r *Repository) LastRefresh() (*Entry, error) {
	row := r.db.QueryRow(`SELECT id, operation, status, detail, package_count, fingerprint, created_at
		FROM operations WHERE operation = ? AND status = ? ORDER BY id DESC LIMIT 1`, OpRefresh, StatusOK)
	var e Entry
	if err := row.Scan(&e.ID, &e.Operation, &e.Status, &e.Detail, &e.PackageCount, &e.Fingerprint, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Close closes the underlying DB connection used by the Repository.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
