package ui

// ensureViewportSize resizes the details pane in place. A pane scrolled to
// the bottom keeps following the console; otherwise the offset is clamped
// to the new height.
func (m *TuiModel) ensureViewportSize(width, height int) {
	if height < 1 {
		height = 1
	}
	if m.vp.Width == width && m.vp.Height == height {
		return
	}
	follow := m.vp.AtBottom()
	m.vp.Width = width
	m.vp.Height = height
	if follow {
		m.vp.GotoBottom()
		return
	}
	m.vp.SetYOffset(m.vp.YOffset)
}
