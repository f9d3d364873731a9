package store

import (
	"fmt"

	"github.com/VoxDroid/rpkgs/internal/packages"
)

// Context values attached to display items.
const (
	ContextPackage     = "rPackage"
	ContextPlaceholder = "placeholder"
)

// OpenHelpCommand is the command id bound to package items.
const OpenHelpCommand = "rpkgs.openHelp"

// Placeholder messages shown when the filtered list is empty.
var placeholderMessages = []string{
	"No R package information available yet.",
	"Try to refresh after R starts or clear search.",
}

// CheckboxState mirrors the loaded flag of a package.
type CheckboxState int

// Checkbox states.
const (
	Unchecked CheckboxState = iota
	Checked
)

// Item is one child of the package view: a package record or a placeholder
// message.
type Item struct {
	Placeholder bool
	Message     string
	Record      packages.Record
}

// Command is invoked when an item is activated.
type Command struct {
	ID    string
	Title string
	Args  []string
}

// TreeItem is the display form of an Item.
type TreeItem struct {
	Label        string
	Description  string
	Tooltip      string
	ContextValue string
	// Checkbox is nil for placeholders.
	Checkbox *CheckboxState
	Command  *Command
}

func packageItem(r packages.Record) Item { return Item{Record: r} }

func placeholderItems() []Item {
	out := make([]Item, 0, len(placeholderMessages))
	for _, m := range placeholderMessages {
		out = append(out, Item{Placeholder: true, Message: m})
	}
	return out
}

func treeItem(it Item) TreeItem {
	if it.Placeholder {
		return TreeItem{Label: it.Message, ContextValue: ContextPlaceholder}
	}
	r := it.Record
	state := Unchecked
	if r.Loaded {
		state = Checked
	}
	return TreeItem{
		Label:        r.Name,
		Description:  fmt.Sprintf("%s (%s)", r.Version, r.LocationType),
		Tooltip:      fmt.Sprintf("%s\n(%s)", r.Title, r.LibPath),
		ContextValue: ContextPackage,
		Checkbox:     &state,
		Command:      &Command{ID: OpenHelpCommand, Title: "Open Package Help", Args: []string{r.Name}},
	}
}
