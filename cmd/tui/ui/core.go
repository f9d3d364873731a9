package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/store"
)

const (
	listTitle       = "R packages"
	maxConsoleLines = 500
)

type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeConfirm
)

type inputKind int

const (
	inputSearch inputKind = iota
	inputInstall
)

// Messages
type storeChangedMsg struct{}
type noticeMsg notify.Message
type consoleMsg string
type consoleFocusMsg struct{}
type opDoneMsg struct {
	label string
	err   error
}

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	ui    Model
	list  list.Model
	vp    viewport.Model
	input textinput.Model

	width  int
	height int

	mode          mode
	inputKind     inputKind
	confirmText   string
	confirmAction func() tea.Cmd

	console []string
	notice  *notify.Message
	// offer is the latest notification with an action, accepted with y
	offer *notify.Message
	busy  string

	themeHighContrast bool
	// focus: false = left pane (list), true = right pane (console)
	focusRight bool
}

// NewModel constructs the Bubble Tea TUI model. It accepts any
// implementation of Model so tests can provide fakes.
func NewModel(ui Model) *TuiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = listTitle
	l.SetShowStatusBar(false)
	// search goes through the package filter, not the list's own
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	in := textinput.New()
	in.CharLimit = 256

	m := &TuiModel{ui: ui, list: l, vp: viewport.New(40, 12), input: in}
	m.reloadItems()
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(ui Model) *tea.Program {
	return tea.NewProgram(NewModel(ui), tea.WithAltScreen())
}

// Init sizes the panes so the first render has content before a
// WindowSizeMsg arrives.
func (m *TuiModel) Init() tea.Cmd {
	if m.list.Height() == 0 {
		m.list.SetSize(30, 10)
	}
	return nil
}

// pkgItem adapts a store item for the list component.
type pkgItem struct {
	it store.Item
	ti store.TreeItem
}

func (p pkgItem) Title() string {
	if p.it.Placeholder {
		return p.ti.Label
	}
	box := "[ ]"
	if p.ti.Checkbox != nil && *p.ti.Checkbox == store.Checked {
		box = "[x]"
	}
	return box + " " + p.ti.Label
}

func (p pkgItem) Description() string { return p.ti.Description }
func (p pkgItem) FilterValue() string { return p.ti.Label }

// reloadItems rebuilds the list from the store, keeping the selected
// package selected when it is still visible.
func (m *TuiModel) reloadItems() {
	prev, hadPrev := m.selected()
	items := m.ui.Items()
	out := make([]list.Item, 0, len(items))
	sel := 0
	for i, it := range items {
		out = append(out, pkgItem{it: it, ti: m.ui.TreeItem(it)})
		if hadPrev && !it.Placeholder && it.Record.Key() == prev.Record.Key() {
			sel = i
		}
	}
	m.list.SetItems(out)
	m.list.Select(sel)
	m.list.Title = listTitle
	if f := m.ui.Filter(); f.Text != "" || f.LoadedOnly {
		m.list.Title = listTitle + " (filtered)"
	}
}

// selected returns the highlighted package, if it is one.
func (m *TuiModel) selected() (store.Item, bool) {
	p, ok := m.list.SelectedItem().(pkgItem)
	if !ok || p.it.Placeholder {
		return store.Item{}, false
	}
	return p.it, true
}

// run executes fn off the event loop and reports completion with
// opDoneMsg. Only one operation runs at a time.
func (m *TuiModel) run(label string, fn func(ctx context.Context) error) tea.Cmd {
	if m.busy != "" {
		m.setNotice(notify.LevelWarn, "Busy: "+m.busy)
		return nil
	}
	m.busy = label
	return func() tea.Msg {
		return opDoneMsg{label: label, err: fn(context.Background())}
	}
}

func (m *TuiModel) setNotice(level notify.Level, text string) {
	m.notice = &notify.Message{Level: level, Text: text}
}

func (m *TuiModel) appendConsole(line string) {
	m.console = append(m.console, line)
	if n := len(m.console); n > maxConsoleLines {
		m.console = m.console[n-maxConsoleLines:]
	}
	atBottom := m.vp.AtBottom()
	m.refreshPane()
	if atBottom {
		m.vp.GotoBottom()
	}
}

func (m *TuiModel) onDone(msg opDoneMsg) {
	m.busy = ""
	if msg.err != nil {
		// handlers have already notified the user
		log.Debug("tui %s: %v", msg.label, msg.err)
	}
}
