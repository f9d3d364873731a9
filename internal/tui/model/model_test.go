package model

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/VoxDroid/rpkgs/internal/commands"
	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/store"
)

type testRuntime struct {
	mu    sync.Mutex
	codes []string
	modes []executor.Mode
}

func (t *testRuntime) RegisteredRuntimes(context.Context) ([]executor.RuntimeInfo, error) {
	return []executor.RuntimeInfo{{LanguageID: executor.LanguageR}}, nil
}

func (t *testRuntime) ActiveSessions(context.Context) ([]executor.SessionInfo, error) {
	return []executor.SessionInfo{{ID: "r-1", RuntimeMetadata: executor.RuntimeInfo{LanguageID: executor.LanguageR}}}, nil
}

func (t *testRuntime) Execute(_ context.Context, req executor.Request) (*executor.Execution, error) {
	t.mu.Lock()
	t.codes = append(t.codes, req.Code)
	t.modes = append(t.modes, req.Mode)
	t.mu.Unlock()
	return executor.Finished("x", nil), nil
}

// snapshotRefresher publishes a fixed snapshot.
type snapshotRefresher struct {
	store   *store.Provider
	records []packages.Record
	n       int
}

func (s *snapshotRefresher) Refresh(context.Context) error {
	s.n++
	s.store.Refresh(s.records)
	return nil
}

var sample = []packages.Record{
	{Name: "dplyr", Version: "1.1.4", LibPath: "/u", LocationType: packages.User, Title: "A Grammar of Data Manipulation"},
	{Name: "ggplot2", Version: "3.5.1", LibPath: "/u", LocationType: packages.User, Title: "Create Elegant Data Visualisations", Loaded: true},
}

func newTestModel() (*UIModel, *testRuntime, *snapshotRefresher, *notify.Recorder) {
	st := store.NewProvider()
	rt := &testRuntime{}
	ref := &snapshotRefresher{store: st, records: sample}
	notes := &notify.Recorder{}
	h := &commands.Handler{Runtime: rt, Store: st, Refresher: ref, Notifier: notes}
	st.SetToggler(h)
	return New(st, h), rt, ref, notes
}

func TestRefreshAndItems(t *testing.T) {
	m, _, _, _ := newTestModel()
	if items := m.Items(); len(items) != 2 || !items[0].Placeholder {
		t.Fatalf("expected placeholders before refresh, got %+v", items)
	}
	changed := 0
	off := m.OnChange(func() { changed++ })
	defer off()
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	items := m.Items()
	if len(items) != 2 || items[0].Record.Name != "dplyr" {
		t.Fatalf("unexpected items %+v", items)
	}
	if changed != 1 {
		t.Fatalf("expected one change event, got %d", changed)
	}
	if ti := m.TreeItem(items[1]); ti.Description != "3.5.1 (User)" {
		t.Fatalf("description %q", ti.Description)
	}
}

func TestSearchAndDismiss(t *testing.T) {
	m, _, _, _ := newTestModel()
	_ = m.Refresh(context.Background())

	if err := m.Search("ggplot", false); err != nil {
		t.Fatal(err)
	}
	if m.Filter().Text != "ggplot" || len(m.Items()) != 1 {
		t.Fatalf("filter %q items %+v", m.Filter().Text, m.Items())
	}
	if err := m.Search("ignored", true); err != nil {
		t.Fatal(err)
	}
	if m.Filter().Text != "" || len(m.Items()) != 2 {
		t.Fatalf("dismissed search should clear filter, got %q", m.Filter().Text)
	}
}

func TestToggleLoadedNotifies(t *testing.T) {
	m, _, _, notes := newTestModel()
	_ = m.Refresh(context.Background())
	m.ToggleLoaded()
	if !m.Filter().LoadedOnly || len(m.Items()) != 1 {
		t.Fatalf("expected only the loaded package, got %+v", m.Items())
	}
	if last, _ := notes.Last(); last.Text != "Showing only loaded packages" {
		t.Fatalf("notice %q", last.Text)
	}
}

func TestActionsRunWithoutPrompting(t *testing.T) {
	m, rt, ref, _ := newTestModel()
	ctx := context.Background()
	_ = m.Refresh(ctx)

	if err := m.Install(ctx, "tidyr, readr"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := m.Uninstall(ctx, sample[0]); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if err := m.UpdateAll(ctx); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	if err := m.SetLoaded(ctx, store.Item{Record: sample[0]}, true); err != nil {
		t.Fatalf("SetLoaded: %v", err)
	}
	if err := m.Help(ctx, "dplyr"); err != nil {
		t.Fatalf("Help: %v", err)
	}

	want := []string{
		`install.packages(c("tidyr", "readr"))`,
		`remove.packages("dplyr"`,
		"update.packages(",
		`library("dplyr"`,
		`help(package = "dplyr")`,
	}
	if len(rt.codes) != len(want) {
		t.Fatalf("codes %q", rt.codes)
	}
	for i, w := range want {
		if !strings.Contains(rt.codes[i], w) {
			t.Errorf("code %d = %q, want it to contain %q", i, rt.codes[i], w)
		}
	}
	if rt.modes[4] != executor.Interactive {
		t.Fatal("help should be shown in the console")
	}
	// one initial refresh plus one per successful mutation
	if ref.n != 5 {
		t.Fatalf("expected 5 refreshes, got %d", ref.n)
	}
}

func TestInstallInvalidInput(t *testing.T) {
	m, rt, _, notes := newTestModel()
	err := m.Install(context.Background(), "good, bad name!")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(rt.codes) != 0 {
		t.Fatalf("nothing should be submitted, got %q", rt.codes)
	}
	if last, _ := notes.Last(); last.Level != notify.LevelError {
		t.Fatalf("expected error notice, got %+v", last)
	}
	if errors.Is(err, commands.ErrCancelled) {
		t.Fatal("validation failure is not a cancellation")
	}
}
