package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Fixed layout rows: title bar, subtitle, pane headers, separator, footer.
const (
	headerLines    = 2
	paneHeadLines  = 2
	footerLines    = 1
	detailHeadRows = 4 // name, email, date, separator
)

// calculateScrollOffset computes the new scroll offset to keep cursor visible within pageSize.
func calculateScrollOffset(cursor, currentOffset, pageSize int) int {
	if cursor < currentOffset {
		return cursor
	}
	if cursor >= currentOffset+pageSize {
		return cursor - pageSize + 1
	}
	return currentOffset
}

// bannerLines is 1 while the error banner is showing.
func (m Model) bannerLines() int {
	if m.state.Error != "" {
		return 1
	}
	return 0
}

// pageSize returns the number of list rows that fit on screen.
func (m Model) pageSize() int {
	n := m.height - headerLines - m.bannerLines() - paneHeadLines - footerLines
	if n < 1 {
		n = 1
	}
	return n
}

// paneWidths splits the terminal between the list and detail panes, with a
// one-column divider between them.
func (m Model) paneWidths() (list, detail int) {
	list = m.width * 13 / 24
	detail = m.width - list - 1
	if detail < 1 {
		detail = 1
	}
	return list, detail
}

// navigateList handles cursor movement keys. It reports whether the key was
// consumed.
func (m *Model) navigateList(msg tea.KeyMsg) bool {
	n := len(m.state.Messages)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		if n > 0 {
			m.cursor = n - 1
		}
	default:
		return false
	}
	m.ensureCursorVisible()
	return true
}

// clampCursor keeps the cursor inside the current list after it shrinks.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Messages) {
		m.cursor = len(m.state.Messages) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) ensureCursorVisible() {
	m.scrollOffset = calculateScrollOffset(m.cursor, m.scrollOffset, m.pageSize())
	if maxOffset := len(m.state.Messages) - m.pageSize(); m.scrollOffset > maxOffset {
		m.scrollOffset = max(maxOffset, 0)
	}
}

// resizeDetail fits the detail viewport to the current terminal size and
// re-wraps its content.
func (m *Model) resizeDetail() {
	_, w := m.paneWidths()
	m.detail.Width = w
	m.detail.Height = max(m.pageSize()+paneHeadLines-detailHeadRows, 1)
	if m.state.Selected != nil {
		m.detail.SetContent(m.detailBody(*m.state.Selected))
	}
}

// updateDetail refreshes the detail body when the selection changed.
func (m *Model) updateDetail() {
	sel := m.state.Selected
	if sel == nil {
		m.detailID = ""
		m.detail.SetContent("")
		return
	}
	if sel.ID == m.detailID {
		return
	}
	m.detailID = sel.ID
	m.resizeDetail()
	m.detail.GotoTop()
}

// scrollDetail moves the detail body by delta lines.
func (m *Model) scrollDetail(delta int) {
	if m.state.Selected == nil {
		return
	}
	m.detail.SetYOffset(m.detail.YOffset + delta)
}
