package cran

import (
	"context"
	"sort"

	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

// Update is one installed package with a newer version on the mirror.
type Update struct {
	Name      string
	LibPath   string
	Installed string
	Available string
}

// Outdated checks every user-library record against the mirror's package
// index, fetched once. A package installed in several user libraries is
// checked per library. Packages the mirror does not carry (GitHub installs,
// local builds) are skipped.
func (c *Client) Outdated(ctx context.Context, records []packages.Record) ([]Update, error) {
	index, err := c.Index(ctx)
	if err != nil {
		return nil, err
	}
	available := make(map[string]string, len(index))
	for _, d := range index {
		if cur, ok := available[d.Package]; !ok || CompareVersions(cur, d.Version) < 0 {
			available[d.Package] = d.Version
		}
	}

	seen := make(map[string]bool)
	var out []Update
	for _, r := range records {
		if r.LocationType != packages.User || seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		v, ok := available[r.Name]
		if !ok {
			log.Debug("cran: %s not on mirror, skipping", r.Name)
			continue
		}
		if CompareVersions(r.Version, v) < 0 {
			out = append(out, Update{Name: r.Name, LibPath: r.LibPath, Installed: r.Version, Available: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].LibPath < out[j].LibPath
	})
	return out, nil
}
