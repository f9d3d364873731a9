package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

const detailLabelW = 10

// simple word-wrap to produce lines no longer than width (approximate by rune count)
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	out := []string{}
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) > width {
				out = append(out, cur)
				cur = w
			} else {
				cur = cur + " " + w
			}
		}
		out = append(out, cur)
	}
	return out
}

// renderTableInline renders a label on the left and the value on the same
// line. Values are wrapped to valueW and continuation lines are aligned
// under the value column.
func renderTableInline(label, value string, labelW, valueW int) string {
	pad := func(s string) string {
		if n := utf8.RuneCountInString(s); n < labelW {
			return s + strings.Repeat(" ", labelW-n)
		}
		return s
	}
	lines := wrapText(value, valueW)
	var b strings.Builder
	for i, ln := range lines {
		if i == 0 {
			b.WriteString(pad(label) + " " + ln + "\n")
		} else {
			b.WriteString(strings.Repeat(" ", labelW) + " " + ln + "\n")
		}
	}
	return b.String()
}

// formatPackageDetails renders the selected package for the right pane.
func formatPackageDetails(r packages.Record, width int) string {
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))
	valueW := width - detailLabelW - 1
	if valueW < 10 {
		valueW = 10
	}
	loaded := "no"
	if r.Loaded {
		loaded = "yes"
	}
	var b strings.Builder
	b.WriteString(h.Render(r.Name) + "\n")
	b.WriteString(renderTableInline("Title:", r.Title, detailLabelW, valueW))
	b.WriteString(renderTableInline("Version:", r.Version, detailLabelW, valueW))
	b.WriteString(renderTableInline("Library:", fmt.Sprintf("%s (%s)", r.LibPath, r.LocationType), detailLabelW, valueW))
	b.WriteString(renderTableInline("Loaded:", loaded, detailLabelW, valueW))
	return b.String()
}

// refreshPane re-renders the right pane: selected package details above
// the console output.
func (m *TuiModel) refreshPane() {
	var b strings.Builder
	if it, ok := m.selected(); ok {
		b.WriteString(formatPackageDetails(it.Record, m.vp.Width))
	}
	k := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94a3b8"))
	b.WriteString("\n" + k.Render("Console") + "\n")
	b.WriteString(strings.Join(m.console, "\n"))
	m.vp.SetContent(b.String())
}

func (m *TuiModel) resize(width, height int) {
	m.width = width
	m.height = height
	headH := 3
	footerH := 3
	bodyH := m.height - headH - footerH - 2
	if bodyH < 3 {
		bodyH = 3
	}

	sideW := int(float64(m.width) * 0.4)
	if sideW > 48 {
		sideW = 48
	}
	if sideW < 20 {
		sideW = 20
	}
	innerSideW := sideW - 2
	if innerSideW < 10 {
		innerSideW = 10
	}

	rightW := m.width - sideW - 4
	if rightW < 12 {
		rightW = 12
	}
	innerRightW := rightW - 2
	if innerRightW < 10 {
		innerRightW = 10
	}

	m.list.SetSize(innerSideW, bodyH)
	m.ensureViewportSize(innerRightW, bodyH-2)
	m.input.Width = m.width - len(m.input.Prompt) - 2
	m.refreshPane()
}

func (m *TuiModel) View() string {
	var sideBorder, rightBorder, bottomBg, bottomFg string
	sideBorderStyle := lipgloss.NormalBorder()
	rightBorderStyle := lipgloss.NormalBorder()
	if m.themeHighContrast {
		bottomBg, bottomFg = "#000000", "#ffffff"
		sideBorder, rightBorder = "#ffffff", "#444444"
		if m.focusRight {
			sideBorder, rightBorder = "#444444", "#ffffff"
		}
	} else {
		bottomBg, bottomFg = "#0b1226", "#cbd5e1"
		sideBorder, rightBorder = "#7dd3fc", "#334155"
		if m.focusRight {
			sideBorder, rightBorder = "#334155", "#c084fc"
		}
	}
	if m.focusRight {
		rightBorderStyle = lipgloss.ThickBorder()
	} else {
		sideBorderStyle = lipgloss.ThickBorder()
	}

	count := 0
	for _, it := range m.list.Items() {
		if p, ok := it.(pkgItem); ok && !p.it.Placeholder {
			count++
		}
	}
	titleBox := m.renderTitleBox(fmt.Sprintf(" rpkgs: R packages (%d) ", count))

	sidebar := lipgloss.NewStyle().BorderStyle(sideBorderStyle).BorderForeground(lipgloss.Color(sideBorder)).
		Width(m.list.Width()).Height(m.list.Height()).Render(m.list.View())
	rightW := m.width - m.list.Width() - 4
	if rightW < 12 {
		rightW = 12
	}
	right := lipgloss.NewStyle().BorderStyle(rightBorderStyle).BorderForeground(lipgloss.Color(rightBorder)).
		Padding(0, 1).Width(rightW).Height(m.list.Height()).Render(m.vp.View())

	var body string
	if m.width < 80 {
		body = lipgloss.JoinVertical(lipgloss.Left, sidebar, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
	}

	var prompt string
	switch m.mode {
	case modeInput:
		prompt = m.input.View()
	case modeConfirm:
		prompt = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fde047")).Render(m.confirmText + " [y/N]")
	default:
		prompt = m.noticeLine()
	}

	status := "Items: " + fmt.Sprintf("%d", count)
	if f := m.ui.Filter(); f.Text != "" {
		status += fmt.Sprintf(" • FILTER: %q", f.Text)
	}
	if m.ui.Filter().LoadedOnly {
		status += " • LOADED ONLY"
	}
	if m.focusRight {
		status += " • FOCUS: CONSOLE"
	}
	if m.busy != "" {
		status += " • RUNNING: " + strings.ToUpper(m.busy)
	}
	bottom := lipgloss.NewStyle().Background(lipgloss.Color(bottomBg)).Foreground(lipgloss.Color(bottomFg)).Padding(0, 1).Width(m.width).Render(" " + status + " ")

	footerText := "space load/unload • / search • l loaded only • r refresh • i install • d uninstall • U update all • enter help • tab focus • T theme • q quit"
	footer := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94a3b8")).Render(footerText)

	return lipgloss.JoinVertical(lipgloss.Left, titleBox, body, prompt, footer, bottom)
}

func (m *TuiModel) noticeLine() string {
	if m.notice == nil {
		return ""
	}
	color := "#cbd5e1"
	switch m.notice.Level {
	case notify.LevelWarn:
		color = "#fbbf24"
	case notify.LevelError:
		color = "#f87171"
	case notify.LevelOffer:
		color = "#fde047"
	}
	text := m.notice.Text
	if m.offer != nil && m.notice.Level == notify.LevelOffer {
		text += fmt.Sprintf(" (y: %s)", m.offer.Action)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// renderTitleBox produces the title bar (with border) shown above the panes.
func (m *TuiModel) renderTitleBox(text string) string {
	var titleFg, titleBg, titleBorder string
	if m.themeHighContrast {
		titleFg, titleBg = "#000000", "#ffff00"
		titleBorder = "#ffff00"
	} else {
		titleFg, titleBg = "#ffffff", "#0f766e"
		titleBorder = "#0ea5a4"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(titleFg)).Background(lipgloss.Color(titleBg)).Padding(0, 1)
	title := titleStyle.Render(text)
	titleInner := lipgloss.Place(m.width-2, 1, lipgloss.Center, lipgloss.Center, title)
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(titleBorder)).Width(m.width).Render(titleInner)
}
