package refresh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookgo/clock"

	"github.com/VoxDroid/rpkgs/internal/executor"
)

// Pending is a submitted query. The file at Path appears once the
// interpreter finishes; Exec reports failure if it does not.
type Pending struct {
	Path string
	Exec *executor.Execution
}

// Fetcher submits the query program to the R runtime.
type Fetcher struct {
	Runtime executor.Runtime
	// TempDir holds output files. Empty means os.TempDir().
	TempDir string
	Clock   clock.Clock
	// TempPath generates the output path inside dir. Defaults to
	// r_packages_<unix millis>.json.
	TempPath func(dir string) string
}

func (f *Fetcher) tempPath() string {
	dir := f.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if f.TempPath != nil {
		return f.TempPath(dir)
	}
	clk := f.Clock
	if clk == nil {
		clk = clock.New()
	}
	return filepath.Join(dir, fmt.Sprintf("r_packages_%d.json", clk.Now().UnixMilli()))
}

// Fetch verifies an R runtime is registered and submits the query program
// silently. It returns as soon as the interpreter has accepted the code.
func (f *Fetcher) Fetch(ctx context.Context) (*Pending, error) {
	ok, err := executor.HasRuntime(ctx, f.Runtime, executor.LanguageR)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, executor.ErrRuntimeUnavailable
	}
	path := f.tempPath()
	code, err := QueryProgram(path)
	if err != nil {
		return nil, err
	}
	ex, err := f.Runtime.Execute(ctx, executor.Request{
		Language: executor.LanguageR,
		Code:     code,
		Mode:     executor.Silent,
	})
	if err != nil {
		return nil, err
	}
	return &Pending{Path: path, Exec: ex}, nil
}
