package refresh

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/VoxDroid/rpkgs/internal/executor"
)

// QueryProtocol versions the JSON produced by the query program. Bump it
// when the row schema changes.
const QueryProtocol = 1

// QueryFields is the row schema of protocol 1, in output order.
var QueryFields = []string{"Package", "Version", "LibPath", "LocationType", "Title", "Loaded"}

//go:embed query.R.tmpl
var queryTmplText string

var queryTmpl = template.Must(template.New("query.R").Parse(queryTmplText))

// QueryProgram renders the R program that writes the package list to path.
// Paths use forward slashes inside the program on every platform.
func QueryProgram(path string) (string, error) {
	out := filepath.ToSlash(path)
	var b strings.Builder
	err := queryTmpl.Execute(&b, struct {
		Protocol int
		Out      string
		Tmp      string
	}{
		Protocol: QueryProtocol,
		Out:      executor.QuoteR(out),
		Tmp:      executor.QuoteR(out + ".tmp"),
	})
	if err != nil {
		return "", fmt.Errorf("render query program: %w", err)
	}
	return b.String(), nil
}
