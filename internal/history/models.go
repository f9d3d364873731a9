// Package history journals package operations (refreshes, installs,
// removals, updates, load toggles) in the SQLite database.
package history

// Operation status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Operation names recorded by the refresher and the command handlers.
const (
	OpRefresh   = "refresh"
	OpInstall   = "install"
	OpUninstall = "uninstall"
	OpUpdate    = "update"
	OpLoad      = "load"
	OpUnload    = "unload"
)

// Entry is one journaled operation.
type Entry struct {
	ID           int64
	Operation    string
	Packages     []string
	Status       string
	Detail       string
	PackageCount int
	Fingerprint  string
	CreatedAt    string
}
