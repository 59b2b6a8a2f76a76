package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the dashboard key bindings.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Select     key.Binding
	Clear      key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	Confirm key.Binding
	Decline key.Binding
	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close detail")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		DetailUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "scroll detail")),
		DetailDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "scroll detail")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		Decline: key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
	}
}

// footerBindings are the bindings advertised in the footer.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Refresh, k.Help, k.Quit}
}

// handleKeyPress routes a key press. A pending alert takes priority over
// everything except ctrl+c, then any open modal, then the list.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.state.Alert != "" {
		return m.handleAlertKeys(msg)
	}

	switch m.modal {
	case modalDeleteConfirm:
		return m.handleDeleteConfirmKeys(msg)
	case modalHelp:
		return m.handleHelpKeys(msg)
	}

	return m.handleListKeys(msg)
}

func (m Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Dismiss) {
		m.ctrl.DismissAlert()
		m.syncState()
	}
	return m, nil
}

func (m Model) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.pendingDelete
		m.modal = modalNone
		m.pendingDelete = ""
		m.inflight++
		spinCmd := m.startSpinner()
		return m, tea.Batch(spinCmd, m.deleteMessage(id))
	case key.Matches(msg, m.keys.Decline):
		m.logger.Debug("delete declined", "id", m.pendingDelete)
		m.modal = modalNone
		m.pendingDelete = ""
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case key.Matches(msg, m.keys.Down):
		if m.helpScroll < len(rawHelpLines)-m.helpMaxVisible() {
			m.helpScroll++
		}
	default:
		m.modal = modalNone
		m.helpScroll = 0
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.navigateList(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		m.helpScroll = 0

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorMessage(); ok {
			m.ctrl.Select(row)
			m.syncState()
		}

	case key.Matches(msg, m.keys.Clear):
		if m.state.Selected != nil {
			m.ctrl.ClearSelection()
			m.syncState()
		}

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.cursorMessage()
		if !ok || m.state.Busy.IsDeleting(row.ID) {
			return m, nil
		}
		m.modal = modalDeleteConfirm
		m.pendingDelete = row.ID

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing() {
			return m, nil
		}
		m.inflight++
		m.refreshPending = true
		spinCmd := m.startSpinner()
		return m, tea.Batch(spinCmd, m.refresh())

	case key.Matches(msg, m.keys.DetailUp):
		m.scrollDetail(-m.detail.Height)

	case key.Matches(msg, m.keys.DetailDown):
		m.scrollDetail(m.detail.Height)
	}
	return m, nil
}
