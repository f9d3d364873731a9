// Package model provides a framework-agnostic UI model over the package
// store and the command handler so the TUI code can remain
// presentation-focused.
package model

import (
	"context"

	"github.com/VoxDroid/rpkgs/internal/commands"
	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/store"
)

// UIModel exposes the package view and its actions. Prompts are answered by
// the presentation layer before an action is invoked, so every action here
// runs without asking again.
type UIModel struct {
	store   *store.Provider
	handler *commands.Handler
}

// New constructs a UIModel over st and h.
func New(st *store.Provider, h *commands.Handler) *UIModel {
	return &UIModel{store: st, handler: h}
}

// answered is a Prompter that replays an answer the user already gave.
type answered struct {
	text      string
	dismissed bool
}

func (a answered) Input(string, string, string) (string, bool, error) {
	return a.text, !a.dismissed, nil
}

func (a answered) Confirm(string) (bool, error) { return !a.dismissed, nil }

func (m *UIModel) with(p commands.Prompter) *commands.Handler {
	h := *m.handler
	h.Prompter = p
	return &h
}

// Items returns the filtered package items, or placeholders.
func (m *UIModel) Items() []store.Item { return m.store.GetChildren() }

// TreeItem renders an item.
func (m *UIModel) TreeItem(it store.Item) store.TreeItem { return m.store.GetTreeItem(it) }

// Filter returns the current filter.
func (m *UIModel) Filter() packages.FilterState { return m.store.Filter() }

// OnChange subscribes to store changes.
func (m *UIModel) OnChange(fn func()) func() { return m.store.OnDidChangeTreeData(fn) }

// Refresh re-reads the package list.
func (m *UIModel) Refresh(ctx context.Context) error { return m.handler.Refresh(ctx) }

// Search applies text as the filter. A dismissed search clears it.
func (m *UIModel) Search(text string, dismissed bool) error {
	return m.with(answered{text: text, dismissed: dismissed}).Search()
}

// ToggleLoaded flips the loaded-only filter.
func (m *UIModel) ToggleLoaded() { m.handler.ToggleLoadedFilter() }

// Install installs the comma separated names in input.
func (m *UIModel) Install(ctx context.Context, input string) error {
	return m.with(answered{text: input}).Install(ctx)
}

// Uninstall removes rec.
func (m *UIModel) Uninstall(ctx context.Context, rec packages.Record) error {
	return m.with(answered{}).Uninstall(ctx, &rec)
}

// UpdateAll updates every package.
func (m *UIModel) UpdateAll(ctx context.Context) error {
	return m.with(answered{}).UpdateAll(ctx)
}

// SetLoaded loads or unloads the package behind it.
func (m *UIModel) SetLoaded(ctx context.Context, it store.Item, loaded bool) error {
	state := store.Unchecked
	if loaded {
		state = store.Checked
	}
	return m.store.HandleCheckboxChange(ctx, it, state)
}

// Help prints the help index of name to the console.
func (m *UIModel) Help(ctx context.Context, name string) error {
	return m.handler.PackageHelp(ctx, name, executor.Interactive)
}
