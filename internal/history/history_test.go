package history

import (
	"path/filepath"
	"testing"

	"github.com/VoxDroid/rpkgs/internal/db"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	dbConn, err := db.Open(filepath.Join(t.TempDir(), "rpkgs.db"))
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	r := NewRepository(dbConn)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecordAndList(t *testing.T) {
	r := setupRepo(t)
	if _, err := r.Record(Entry{Operation: OpRefresh, PackageCount: 42, Fingerprint: "abc"}); err != nil {
		t.Fatalf("Record refresh: %v", err)
	}
	if _, err := r.Record(Entry{Operation: OpInstall, Packages: []string{"dplyr", "tidyr"}, Status: StatusFailed, Detail: "Error: no mirror"}); err != nil {
		t.Fatalf("Record install: %v", err)
	}

	all, err := r.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	// newest first
	if all[0].Operation != OpInstall || all[1].Operation != OpRefresh {
		t.Fatalf("unexpected order: %s, %s", all[0].Operation, all[1].Operation)
	}
	if len(all[0].Packages) != 2 || all[0].Packages[1] != "tidyr" || all[0].Status != StatusFailed {
		t.Fatalf("install entry not preserved: %+v", all[0])
	}
	if all[1].Status != StatusOK || all[1].PackageCount != 42 || all[1].Packages == nil || len(all[1].Packages) != 0 {
		t.Fatalf("refresh entry not preserved: %+v", all[1])
	}
	if all[1].CreatedAt == "" {
		t.Fatalf("expected created_at to be set")
	}

	one, err := r.List(1)
	if err != nil || len(one) != 1 {
		t.Fatalf("List(1): %v %d", err, len(one))
	}
}

func TestRecordRejectsEmptyOperation(t *testing.T) {
	r := setupRepo(t)
	if _, err := r.Record(Entry{Operation: "  "}); err == nil {
		t.Fatalf("expected error for empty operation")
	}
	if _, err := r.Record(Entry{Operation: OpLoad, Status: "weird"}); err == nil {
		t.Fatalf("expected trigger to reject unknown status")
	}
}

func TestLastRefresh(t *testing.T) {
	r := setupRepo(t)
	got, err := r.LastRefresh()
	if err != nil || got != nil {
		t.Fatalf("expected no refresh yet, got %+v %v", got, err)
	}
	_, _ = r.Record(Entry{Operation: OpRefresh, PackageCount: 1, Fingerprint: "one"})
	_, _ = r.Record(Entry{Operation: OpRefresh, Status: StatusFailed})
	got, err = r.LastRefresh()
	if err != nil || got == nil {
		t.Fatalf("LastRefresh: %+v %v", got, err)
	}
	if got.Fingerprint != "one" {
		t.Fatalf("expected last successful refresh, got %+v", got)
	}
}
