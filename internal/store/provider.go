// Package store holds the current package snapshot and the user's filter
// state, and renders them as display items.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/VoxDroid/rpkgs/internal/eventbus"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

// ErrNoToggler is returned by HandleCheckboxChange when no toggler is set.
var ErrNoToggler = errors.New("package loading is not available")

// Toggler loads or unloads a package in the interpreter.
type Toggler interface {
	SetLoaded(ctx context.Context, rec packages.Record, loaded bool) error
}

// Provider owns the snapshot. It is safe for concurrent use; change
// handlers run synchronously after the lock is released.
type Provider struct {
	mu      sync.RWMutex
	records []packages.Record
	filter  packages.FilterState
	toggler Toggler

	changed *eventbus.Bus[struct{}]
}

// NewProvider returns an empty provider.
func NewProvider() *Provider {
	return &Provider{changed: eventbus.New[struct{}]()}
}

// SetToggler injects the checkbox handler.
func (p *Provider) SetToggler(t Toggler) {
	p.mu.Lock()
	p.toggler = t
	p.mu.Unlock()
}

func (p *Provider) fire() { p.changed.Publish(struct{}{}) }

// OnDidChangeTreeData subscribes to changes and returns an unsubscribe func.
func (p *Provider) OnDidChangeTreeData(fn func()) func() {
	return p.changed.Subscribe(func(struct{}) { fn() })
}

// Refresh replaces the snapshot wholesale.
func (p *Provider) Refresh(records []packages.Record) {
	p.mu.Lock()
	p.records = records
	p.mu.Unlock()
	p.fire()
}

// GetPackages returns the unfiltered snapshot.
func (p *Provider) GetPackages() []packages.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]packages.Record(nil), p.records...)
}

// GetChildren returns the filtered items, or two placeholders when nothing
// matches.
func (p *Provider) GetChildren() []Item {
	p.mu.RLock()
	recs := packages.Apply(p.records, p.filter)
	p.mu.RUnlock()
	if len(recs) == 0 {
		return placeholderItems()
	}
	out := make([]Item, 0, len(recs))
	for _, r := range recs {
		out = append(out, packageItem(r))
	}
	return out
}

// GetTreeItem renders an item for display.
func (p *Provider) GetTreeItem(it Item) TreeItem { return treeItem(it) }

// SetFilter sets the search text.
func (p *Provider) SetFilter(text string) {
	p.mu.Lock()
	p.filter.Text = text
	p.mu.Unlock()
	p.fire()
}

// GetFilter returns the search text.
func (p *Provider) GetFilter() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter.Text
}

// ToggleShowOnlyLoaded flips the loaded-only filter.
func (p *Provider) ToggleShowOnlyLoaded() {
	p.mu.Lock()
	p.filter.LoadedOnly = !p.filter.LoadedOnly
	p.mu.Unlock()
	p.fire()
}

// IsShowingOnlyLoaded reports the loaded-only filter.
func (p *Provider) IsShowingOnlyLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter.LoadedOnly
}

// Filter returns a copy of the filter state.
func (p *Provider) Filter() packages.FilterState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// HandleCheckboxChange asks the toggler to load (Checked) or unload the
// item's package. The stored Loaded flag is left alone; the toggler's
// follow-up refresh brings the new state.
func (p *Provider) HandleCheckboxChange(ctx context.Context, it Item, state CheckboxState) error {
	if it.Placeholder {
		return nil
	}
	p.mu.RLock()
	t := p.toggler
	p.mu.RUnlock()
	if t == nil {
		return ErrNoToggler
	}
	return t.SetLoaded(ctx, it.Record, state == Checked)
}
