package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/contactdesk/contactdesk/internal/dashboard"
)

// Monochrome theme - adaptive for light and dark terminals
var (
	bgBase   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	bgAlt    = lipgloss.AdaptiveColor{Light: "#f0f0f0", Dark: "#181818"}
	bgCursor = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"}
	fgMuted  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}

	// Title bar style - bold with visible background
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(fgMuted).
			Background(bgBase).
			Padding(0, 1)

	// Spinner style - NOT faint so it's visible
	spinnerStyle = lipgloss.NewStyle().
			Bold(true)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	separatorStyle = lipgloss.NewStyle().
			Faint(true).
			Background(bgBase)

	cursorRowStyle = lipgloss.NewStyle().
			Background(bgCursor)

	// Selected row: bold, so it stays visible under the cursor highlight
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	normalRowStyle = lipgloss.NewStyle().
			Background(bgBase)

	altRowStyle = lipgloss.NewStyle().
			Background(bgAlt)

	mutedStyle = lipgloss.NewStyle().
			Foreground(fgMuted).
			Background(bgBase)

	footerStyle = lipgloss.NewStyle().
			Foreground(fgMuted).
			Background(bgBase).
			Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#ff6b6b"}).
				Background(lipgloss.AdaptiveColor{Light: "#fef2f2", Dark: "#2a0f0f"})

	detailNameStyle = lipgloss.NewStyle().
			Bold(true).
			Background(bgBase)

	detailEmailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#6ea8ff"}).
				Background(bgBase)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Background(bgBase)

	alertModalStyle = modalStyle.
			BorderForeground(lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#ff6b6b"})

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true)
)

const (
	appTitle         = "Admin Dashboard"
	appSubtitle      = "Contact form messages viewer"
	emptyListText    = "No messages yet."
	loadingListText  = "Loading messages..."
	emptyDetailText  = "Select a message from the left to view details."
	refreshLabel     = "[r] Refresh"
	refreshingLabel  = "Refreshing..."
	deletingLabel    = "Deleting..."
	statusColumnSize = len(deletingLabel)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	lines := []string{m.buildTitleBar(), m.buildSubtitle()}
	if m.state.Error != "" {
		lines = append(lines, m.buildErrorBanner())
	}
	lines = append(lines, m.panesView()...)
	lines = append(lines, m.footerView())

	return m.overlayModal(strings.Join(lines, "\n"))
}

// spinnerIndicator returns the current spinner frame string.
func (m Model) spinnerIndicator() string {
	if m.spinnerFrame < len(spinnerFrames) {
		return spinnerFrames[m.spinnerFrame]
	}
	return spinnerFrames[0]
}

// buildTitleBar builds the title line with the refresh control on the right.
// Format: "contactdesk [version] - Admin Dashboard          [r] Refresh"
func (m Model) buildTitleBar() string {
	title := "contactdesk"
	if m.version != "" && m.version != "dev" && m.version != "unknown" {
		title = fmt.Sprintf("contactdesk [%s]", m.version)
	}
	left := title + " - " + appTitle

	right := refreshLabel
	if m.refreshing() {
		right = spinnerStyle.Render(m.spinnerIndicator()) + " " + refreshingLabel
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return titleBarStyle.Render(padRight(left+strings.Repeat(" ", gap)+right, m.width-2))
}

// buildSubtitle builds the second header line: subtitle and message count.
func (m Model) buildSubtitle() string {
	contentWidth := m.width - 2
	count := ""
	if m.state.Loaded {
		count = fmt.Sprintf("%d messages", len(m.state.Messages))
		if len(m.state.Messages) == 1 {
			count = "1 message"
		}
	}
	if m.state.Busy.Deleting != "" {
		count = spinnerStyle.Render(m.spinnerIndicator()) + " " + deletingLabel + "  " + count
	}
	gap := contentWidth - lipgloss.Width(appSubtitle) - lipgloss.Width(count)
	if gap < 1 {
		gap = 1
	}
	return statsStyle.Render(padRight(appSubtitle+strings.Repeat(" ", gap)+count, contentWidth))
}

// buildErrorBanner renders the inline error line.
func (m Model) buildErrorBanner() string {
	return errorBannerStyle.Render(padRight(" ! "+truncateRunes(m.state.Error, m.width-3), m.width))
}

// panesView renders the list and detail panes side by side.
func (m Model) panesView() []string {
	listW, detailW := m.paneWidths()
	list := m.listPane(listW)
	detail := m.detailPane(detailW)

	divider := separatorStyle.Render("│")
	out := make([]string, len(list))
	for i := range list {
		d := normalRowStyle.Render(strings.Repeat(" ", detailW))
		if i < len(detail) {
			d = detail[i]
		}
		out[i] = list[i] + divider + d
	}
	return out
}

// listColumns computes column widths for a list pane of width w.
func (m Model) listColumns(w int) (nameW, emailW, dateW int) {
	dateW = lipgloss.Width(m.dates.Date(time.Date(2006, 12, 31, 0, 0, 0, 0, time.UTC)))
	// 3 cells of markers, then single spaces between the four columns
	rest := w - 3 - dateW - statusColumnSize - 3
	if rest < 2 {
		return 1, 1, dateW
	}
	nameW = rest * 2 / 5
	emailW = rest - nameW
	return nameW, emailW, dateW
}

// listPane renders the message list, padded to exactly w cells and
// pageSize+paneHeadLines rows.
func (m Model) listPane(w int) []string {
	nameW, emailW, dateW := m.listColumns(w)
	lines := make([]string, 0, m.pageSize()+paneHeadLines)

	header := fmt.Sprintf("   %-*s %-*s %-*s %s",
		nameW, "Name", emailW, "Email", dateW, "Date", "")
	lines = append(lines, tableHeaderStyle.Render(padRight(header, w)))
	lines = append(lines, separatorStyle.Render(strings.Repeat("─", w)))

	if len(m.state.Messages) == 0 {
		text := emptyListText
		if m.busy() {
			text = loadingListText
		}
		lines = append(lines, mutedStyle.Render(padRight("   "+text, w)))
	}

	end := min(m.scrollOffset+m.pageSize(), len(m.state.Messages))
	for i := m.scrollOffset; i < end; i++ {
		msg := m.state.Messages[i]

		marker := " "
		if i == m.cursor {
			marker = "▶"
		}
		sel := " "
		if m.state.IsSelected(msg.ID) {
			sel = "●"
		}
		status := ""
		if m.state.Busy.IsDeleting(msg.ID) {
			status = deletingLabel
		}

		row := marker + sel + " " +
			padRight(truncateRunes(msg.Name, nameW), nameW) + " " +
			padRight(truncateRunes(msg.Email, emailW), emailW) + " " +
			padRight(m.dates.Date(msg.CreatedAt), dateW) + " " +
			status
		row = padRight(row, w)

		style := normalRowStyle
		switch {
		case i == m.cursor:
			style = cursorRowStyle
		case m.state.IsSelected(msg.ID):
			style = selectedRowStyle
		case i%2 == 1:
			style = altRowStyle
		}
		lines = append(lines, style.Render(row))
	}

	blank := normalRowStyle.Render(strings.Repeat(" ", w))
	for len(lines) < m.pageSize()+paneHeadLines {
		lines = append(lines, blank)
	}
	return lines
}

// detailBody returns the wrapped message body for the viewport.
func (m Model) detailBody(msg dashboard.Message) string {
	_, w := m.paneWidths()
	return strings.Join(wrapText(msg.Message, max(w-2, 1)), "\n")
}

// detailPane renders the selected message, or a hint when nothing is
// selected.
func (m Model) detailPane(w int) []string {
	total := m.pageSize() + paneHeadLines
	lines := make([]string, 0, total)
	blank := normalRowStyle.Render(strings.Repeat(" ", w))

	sel := m.state.Selected
	if sel == nil {
		hint := emptyDetailLines(w)
		for len(lines) < (total-len(hint))/2 {
			lines = append(lines, blank)
		}
		for _, text := range hint {
			pad := max((w-lipgloss.Width(text))/2, 0)
			lines = append(lines, mutedStyle.Render(padRight(strings.Repeat(" ", pad)+text, w)))
		}
	} else {
		lines = append(lines,
			detailNameStyle.Render(padRight(" "+truncateRunes(sel.Name, w-1), w)),
			detailEmailStyle.Render(padRight(" "+truncateRunes(sel.Email, w-1), w)),
			mutedStyle.Render(padRight(" "+m.dates.DateTime(sel.CreatedAt), w)),
			separatorStyle.Render(strings.Repeat("─", w)),
		)
		body := strings.Split(m.detail.View(), "\n")
		for i := 0; i < m.detail.Height && len(lines) < total; i++ {
			line := ""
			if i < len(body) {
				line = body[i]
			}
			lines = append(lines, normalRowStyle.Render(padRight(" "+line, w)))
		}
	}

	for len(lines) < total {
		lines = append(lines, blank)
	}
	return lines[:total]
}

// emptyDetailLines wraps the no-selection hint to fit a detail pane of
// width w, leaving a one-column margin on each side.
func emptyDetailLines(w int) []string {
	return wrapText(emptyDetailText, max(w-2, 1))
}

// footerView renders key hints and the cursor position.
func (m Model) footerView() string {
	var keys []string
	for _, b := range m.keys.footerBindings() {
		h := b.Help()
		keys = append(keys, h.Key+" "+h.Desc)
	}
	keysStr := strings.Join(keys, " │ ")

	posStr := ""
	if n := len(m.state.Messages); n > 0 {
		posStr = fmt.Sprintf(" %d/%d ", m.cursor+1, n)
	}

	gap := m.width - lipgloss.Width(keysStr) - lipgloss.Width(posStr) - 2
	if gap < 0 {
		gap = 0
	}
	return footerStyle.Render(padRight(keysStr+strings.Repeat(" ", gap)+posStr, m.width-2))
}

// rawHelpLines contains the help modal content. The first line is the title
// (rendered with modalTitleStyle at display time).
var rawHelpLines = []string{
	"Keyboard Shortcuts",
	"",
	"Navigation",
	"  ↑/k, ↓/j    Move cursor up/down",
	"  Home/End    Go to first/last",
	"  Enter       View message",
	"  Esc         Close message",
	"  PgUp/PgDn   Scroll message body",
	"",
	"Actions",
	"  d           Delete message under cursor",
	"  r           Refresh list",
	"",
	"Other",
	"  ?           This help",
	"  q           Quit",
	"",
	"[↑/↓] Scroll  [Any other key] Close",
}

// helpMaxVisible returns the max visible lines for the help modal given terminal height.
func (m Model) helpMaxVisible() int {
	v := m.height - 6
	if v < 1 {
		v = 1
	}
	if v > len(rawHelpLines) {
		v = len(rawHelpLines)
	}
	return v
}

// renderHelpModal renders the help modal content with scrolling support.
func (m Model) renderHelpModal() string {
	maxVisible := m.helpMaxVisible()
	scroll := min(m.helpScroll, len(rawHelpLines)-maxVisible)
	if scroll < 0 {
		scroll = 0
	}

	visible := rawHelpLines[scroll : scroll+maxVisible]
	rendered := make([]string, len(visible))
	for i, line := range visible {
		if scroll+i == 0 {
			rendered[i] = modalTitleStyle.Render(line)
		} else {
			rendered[i] = line
		}
	}
	return strings.Join(rendered, "\n")
}

// renderDeleteConfirmModal renders the deletion confirmation modal content.
func (m Model) renderDeleteConfirmModal() string {
	msg, ok := m.state.Find(m.pendingDelete)
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(modalTitleStyle.Render("Confirm Deletion"))
	sb.WriteString("\n\n")
	sb.WriteString(dashboard.DeletePrompt)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%s <%s>\n\n", truncateRunes(msg.Name, 40), truncateRunes(msg.Email, 40)))
	sb.WriteString("[Y] Yes, delete    [N] Cancel")
	return sb.String()
}

// renderAlertModal renders the blocking alert raised by a failed delete.
func (m Model) renderAlertModal() string {
	lines := wrapText(m.state.Alert, max(min(m.width-10, 60), 10))
	return modalTitleStyle.Render("Error") + "\n\n" +
		strings.Join(lines, "\n") + "\n\n" +
		"[Enter] OK"
}

// overlayModal renders a modal dialog over the content. A pending alert
// takes precedence over any other modal.
func (m Model) overlayModal(background string) string {
	var modalContent string
	style := modalStyle

	switch {
	case m.state.Alert != "":
		modalContent = m.renderAlertModal()
		style = alertModalStyle
	case m.modal == modalDeleteConfirm:
		modalContent = m.renderDeleteConfirmModal()
	case m.modal == modalHelp:
		modalContent = m.renderHelpModal()
	}

	if modalContent == "" {
		return background
	}

	modal := style.Render(modalContent)

	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	startLine := (len(bgLines) - len(modalLines)) / 2
	if startLine < 0 {
		startLine = 0
	}

	modalWidth := lipgloss.Width(modal)
	leftPadding := (m.width - modalWidth) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	// Overlay modal onto background, preserving background where modal doesn't cover
	for i, modalLine := range modalLines {
		lineIdx := startLine + i
		if lineIdx >= len(bgLines) {
			break
		}
		bgLine := bgLines[lineIdx]
		bgWidth := lipgloss.Width(bgLine)

		var composite strings.Builder
		if leftPadding > 0 {
			leftBg := truncateToWidth(bgLine, leftPadding)
			composite.WriteString(leftBg)
			if w := lipgloss.Width(leftBg); w < leftPadding {
				composite.WriteString(strings.Repeat(" ", leftPadding-w))
			}
		}

		composite.WriteString(modalLine)

		rightStart := leftPadding + modalWidth
		if rightStart < bgWidth {
			composite.WriteString(skipToWidth(bgLine, rightStart))
		}

		bgLines[lineIdx] = composite.String()
	}

	return strings.Join(bgLines, "\n")
}
