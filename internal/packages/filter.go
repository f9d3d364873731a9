package packages

import (
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// querySource exposes "<name> <title>" strings to the fuzzy matcher.
type querySource []Record

func (s querySource) String(i int) string { return s[i].Name + " " + s[i].Title }
func (s querySource) Len() int            { return len(s) }

// Apply filters records for display. Empty text keeps every record in its
// original order; otherwise only fuzzy matches survive, best score first with
// ties kept in original order. LoadedOnly is applied last.
func Apply(records []Record, f FilterState) []Record {
	out := slices.Clone(records)
	if q := strings.TrimSpace(f.Text); q != "" {
		matches := fuzzy.FindFrom(q, querySource(records))
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Score != matches[j].Score {
				return matches[i].Score > matches[j].Score
			}
			return matches[i].Index < matches[j].Index
		})
		out = make([]Record, 0, len(matches))
		for _, m := range matches {
			out = append(out, records[m.Index])
		}
	}
	if f.LoadedOnly {
		loaded := make([]Record, 0, len(out))
		for _, r := range out {
			if r.Loaded {
				loaded = append(loaded, r)
			}
		}
		out = loaded
	}
	return out
}
