package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/rpkgs/internal/notify"
)

func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.handleInputKey(msg)
		case modeConfirm:
			return m.handleConfirmKey(msg)
		}
		return m.handleBrowseKey(msg)
	case storeChangedMsg:
		m.reloadItems()
		m.refreshPane()
	case noticeMsg:
		n := notify.Message(msg)
		m.notice = &n
		if n.Level == notify.LevelOffer {
			m.offer = &n
		}
	case consoleMsg:
		m.appendConsole(string(msg))
	case consoleFocusMsg:
		// interactive runs move focus to the details pane, scrolled to the console
		m.focusRight = true
		m.vp.GotoBottom()
	case opDoneMsg:
		m.onDone(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *TuiModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "T", "ctrl+t":
		m.themeHighContrast = !m.themeHighContrast
		return m, nil
	case "tab":
		m.focusRight = !m.focusRight
		return m, nil
	case "/":
		m.startInput(inputSearch, "Search: ", m.ui.Filter().Text, "e.g. ggplot2, dplyr, data.table")
		return m, textinput.Blink
	case "i":
		m.startInput(inputInstall, "Install: ", "", "e.g. ggplot2, dplyr, tidyr")
		return m, textinput.Blink
	case "r":
		return m, m.run("refresh", m.ui.Refresh)
	case "l":
		m.ui.ToggleLoaded()
		m.reloadItems()
		return m, nil
	case " ", "space":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		loaded := !it.Record.Loaded
		verb := "Unloading "
		if loaded {
			verb = "Loading "
		}
		m.setNotice(notify.LevelInfo, verb+it.Record.Name)
		return m, m.run("load toggle", func(ctx context.Context) error {
			return m.ui.SetLoaded(ctx, it, loaded)
		})
	case "enter":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		name := it.Record.Name
		return m, m.run("help", func(ctx context.Context) error { return m.ui.Help(ctx, name) })
	case "d":
		it, ok := m.selected()
		if !ok {
			m.setNotice(notify.LevelWarn, "No package selected for uninstallation.")
			return m, nil
		}
		rec := it.Record
		m.confirm(fmt.Sprintf("Uninstall package %q from %s?", rec.Name, rec.LibPath), func() tea.Cmd {
			return m.run("uninstall", func(ctx context.Context) error { return m.ui.Uninstall(ctx, rec) })
		})
		return m, nil
	case "U":
		m.confirm("This will update all R packages. This may take a while. Continue?", func() tea.Cmd {
			return m.run("update", m.ui.UpdateAll)
		})
		return m, nil
	case "y":
		if m.offer == nil || m.offer.Run == nil {
			return m, nil
		}
		run := m.offer.Run
		m.offer = nil
		return m, m.run("offer", func(context.Context) error {
			run()
			return nil
		})
	}

	var cmd tea.Cmd
	if m.focusRight {
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	m.refreshPane()
	return m, cmd
}

func (m *TuiModel) startInput(kind inputKind, prompt, value, placeholder string) {
	m.mode = modeInput
	m.inputKind = kind
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *TuiModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.endInput()
		if m.inputKind == inputSearch {
			// a dismissed search clears the filter
			_ = m.ui.Search("", true)
			m.reloadItems()
		}
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		m.endInput()
		if m.inputKind == inputSearch {
			_ = m.ui.Search(value, false)
			m.reloadItems()
			return m, nil
		}
		return m, m.run("install", func(ctx context.Context) error { return m.ui.Install(ctx, value) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputKind == inputSearch {
		_ = m.ui.Search(m.input.Value(), false)
		m.reloadItems()
	}
	return m, cmd
}

func (m *TuiModel) endInput() {
	m.mode = modeBrowse
	m.input.Blur()
}

func (m *TuiModel) confirm(text string, action func() tea.Cmd) {
	m.mode = modeConfirm
	m.confirmText = text
	m.confirmAction = action
}

func (m *TuiModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		action := m.confirmAction
		m.mode, m.confirmText, m.confirmAction = modeBrowse, "", nil
		if action == nil {
			return m, nil
		}
		return m, action()
	case "n", "N", "esc", "q", "ctrl+c":
		m.mode, m.confirmText, m.confirmAction = modeBrowse, "", nil
		m.setNotice(notify.LevelInfo, "Cancelled")
	}
	return m, nil
}
