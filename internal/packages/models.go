// Package packages holds the R package record model, the wire row produced by
// the interpreter-side query program and the filter engine applied to
// snapshots before display.
package packages

import "fmt"

// LocationType classifies a library path as the interpreter's built-in
// library or a user-installed one.
type LocationType string

// Known location types. Any other value coming off the wire is kept verbatim.
const (
	System LocationType = "System"
	User   LocationType = "User"
)

// Record is a single installed package. Uniqueness is (Name, LibPath): the
// same package may appear once per library path on the search path.
type Record struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	LibPath      string       `json:"libpath"`
	LocationType LocationType `json:"locationtype"`
	Title        string       `json:"title"`
	Loaded       bool         `json:"loaded"`
}

// Key returns the (name, libpath) identity of the record.
func (r Record) Key() string { return r.Name + "\x00" + r.LibPath }

// RawRow is one element of the JSON array written by the query program.
// Title is a pointer because the interpreter emits null for packages
// without a DESCRIPTION title.
type RawRow struct {
	Package      string  `json:"Package"`
	Version      string  `json:"Version"`
	LibPath      string  `json:"LibPath"`
	LocationType string  `json:"LocationType"`
	Title        *string `json:"Title"`
	Loaded       bool    `json:"Loaded"`
}

// FallbackTitle is the title used for packages that report none.
func FallbackTitle(name string) string {
	return fmt.Sprintf("Package %s", name)
}

// Normalize maps a raw row to a Record, applying the title fallback.
func Normalize(row RawRow) Record {
	title := ""
	if row.Title != nil {
		title = *row.Title
	}
	if title == "" {
		title = FallbackTitle(row.Package)
	}
	return Record{
		Name:         row.Package,
		Version:      row.Version,
		LibPath:      row.LibPath,
		LocationType: LocationType(row.LocationType),
		Title:        title,
		Loaded:       row.Loaded,
	}
}

// NormalizeAll maps rows in order. Duplicate (name, libpath) rows are passed
// through unchanged; no dedup is performed.
func NormalizeAll(rows []RawRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row))
	}
	return out
}

// FilterState is the user-controlled view state owned by the store.
type FilterState struct {
	Text       string
	LoadedOnly bool
}
