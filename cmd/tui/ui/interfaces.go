package ui

import (
	"context"

	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/store"
)

// Model defines the subset of the framework-agnostic UI model that the TUI
// depends on. This decouples presentation code from the concrete
// implementation and makes unit testing easier.
type Model interface {
	Items() []store.Item
	TreeItem(it store.Item) store.TreeItem
	Filter() packages.FilterState
	Refresh(ctx context.Context) error
	Search(text string, dismissed bool) error
	ToggleLoaded()
	Install(ctx context.Context, input string) error
	Uninstall(ctx context.Context, rec packages.Record) error
	UpdateAll(ctx context.Context) error
	SetLoaded(ctx context.Context, it store.Item, loaded bool) error
	Help(ctx context.Context, name string) error
}
