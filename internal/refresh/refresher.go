// Package refresh keeps the package store in sync with the R session: it
// submits a query program, waits for its JSON output, parses it and publishes
// the result.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/facebookgo/clock"

	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/history"
	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

// State of a Refresher.
type State int32

// Refresher states.
const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// Publisher receives refreshed snapshots.
type Publisher interface {
	Refresh(records []packages.Record)
}

// Journal records refresh outcomes.
type Journal interface {
	Record(e history.Entry) (int64, error)
}

// Options configures a Refresher.
type Options struct {
	TempDir string
	Clock   clock.Clock
	// Journal is optional.
	Journal Journal
}

// Refresher runs refresh cycles. At most one cycle runs at a time; requests
// made while one is in flight are dropped.
type Refresher struct {
	Runtime  executor.Runtime
	Fetcher  *Fetcher
	Waiter   *Waiter
	Store    Publisher
	Notifier notify.Notifier
	Journal  Journal

	state atomic.Int32
}

// New returns a Refresher wired with a default Fetcher and Waiter.
func New(rt executor.Runtime, store Publisher, n notify.Notifier, opts Options) *Refresher {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	if n == nil {
		n = notify.Discard{}
	}
	return &Refresher{
		Runtime:  rt,
		Fetcher:  &Fetcher{Runtime: rt, TempDir: opts.TempDir, Clock: clk},
		Waiter:   NewWaiter(clk),
		Store:    store,
		Notifier: n,
		Journal:  opts.Journal,
	}
}

// State reports whether a cycle is in flight.
func (r *Refresher) State() State {
	return State(r.state.Load())
}

// Refresh runs one cycle. It returns nil without doing anything if a cycle is
// already running. On failure the user is notified, the store keeps its
// previous snapshot, and the error is returned.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(Idle), int32(Refreshing)) {
		log.Debug("refresh already in progress, skipping")
		return nil
	}
	release := sync.OnceFunc(func() { r.state.Store(int32(Idle)) })
	defer release()

	records, fingerprint, err := r.cycle(ctx)
	if err == nil {
		r.Store.Refresh(records)
	}
	// released before notifying so an accepted offer can refresh again
	release()
	if err != nil {
		r.fail(err)
		return err
	}

	log.Info("Refreshed %d R packages", len(records))
	log.Debug("package snapshot fingerprint %s", fingerprint)
	r.record(history.Entry{
		Operation:    history.OpRefresh,
		Status:       history.StatusOK,
		PackageCount: len(records),
		Fingerprint:  fingerprint,
	})
	return nil
}

func (r *Refresher) cycle(ctx context.Context) ([]packages.Record, string, error) {
	pending, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, "", err
	}

	// an interpreter failure ends the wait early and becomes its result
	wctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-pending.Exec.Done():
			if err := pending.Exec.Err(); err != nil {
				cancel(err)
			}
		case <-wctx.Done():
		}
	}()
	if err := r.Waiter.Wait(wctx, pending.Path); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(pending.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read package list: %w", err)
	}
	rows, err := packages.ParseRows(data)
	if err != nil {
		var pe *packages.ParseError
		if errors.As(err, &pe) {
			pe.Path = pending.Path
		}
		return nil, "", err
	}
	if err := os.Remove(pending.Path); err != nil {
		log.Warn("failed to delete temp file %s: %v", pending.Path, err)
	}
	return packages.NormalizeAll(rows), fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func (r *Refresher) fail(err error) {
	log.Error("Error refreshing R packages: %v", err)
	r.record(history.Entry{Operation: history.OpRefresh, Status: history.StatusFailed, Detail: err.Error()})

	var missing *executor.MissingDependencyError
	if errors.As(err, &missing) {
		pkg := missing.Package
		r.Notifier.Offer(
			fmt.Sprintf("The '%s' package appears to be missing. Would you like to install it?", pkg),
			"Install",
			func() { r.InstallDependency(context.Background(), pkg) },
		)
		return
	}
	r.Notifier.Error("Failed to refresh R packages: " + err.Error())
}

// InstallDependency installs a missing helper package in the console and
// refreshes once it is in place.
func (r *Refresher) InstallDependency(ctx context.Context, pkg string) {
	ex, err := r.Runtime.Execute(ctx, executor.Request{
		Language:     executor.LanguageR,
		Code:         fmt.Sprintf("install.packages(%s)", executor.QuoteR(pkg)),
		FocusConsole: true,
		Mode:         executor.Interactive,
	})
	if err == nil {
		err = ex.Wait(ctx)
	}
	if err != nil {
		log.Error("install %s: %v", pkg, err)
		r.Notifier.Error(fmt.Sprintf("Failed to install %s package", pkg))
		r.record(history.Entry{Operation: history.OpInstall, Packages: []string{pkg}, Status: history.StatusFailed, Detail: err.Error()})
		return
	}
	r.Notifier.Info(fmt.Sprintf("%s package installed successfully", pkg))
	r.record(history.Entry{Operation: history.OpInstall, Packages: []string{pkg}, Status: history.StatusOK})
	_ = r.Refresh(ctx)
}

func (r *Refresher) record(e history.Entry) {
	if r.Journal == nil {
		return
	}
	if _, err := r.Journal.Record(e); err != nil {
		log.Warn("record %s history: %v", e.Operation, err)
	}
}
