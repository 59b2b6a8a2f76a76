// Package tui provides the terminal dashboard for contactdesk.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/contactdesk/contactdesk/internal/dashboard"
)

// modalType represents the type of modal dialog.
type modalType int

const (
	modalNone modalType = iota
	modalDeleteConfirm
	modalHelp
)

// Options configures the TUI.
type Options struct {
	Version string
	Locale  string // BCP 47 tag or POSIX locale; empty reads the environment
	Logger  *slog.Logger
}

// Model is the bubbletea model for the dashboard. It renders snapshots of a
// dashboard.Container and turns key presses into controller intents.
type Model struct {
	ctrl        *dashboard.Controller
	state       dashboard.State // Last snapshot read from the container
	changes     chan struct{}
	unsubscribe func()

	// Context for remote calls, cancelled on quit
	ctx    context.Context
	cancel context.CancelFunc

	keys    keyMap
	dates   dateFormat
	version string
	logger  *slog.Logger

	// List navigation
	cursor       int
	scrollOffset int

	// Detail pane
	detail   viewport.Model
	detailID string // ID of the message currently rendered in detail

	// Modal state
	modal         modalType
	pendingDelete string // ID awaiting confirmation
	helpScroll    int

	// Terminal dimensions
	width  int
	height int

	// In-flight commands started by this model
	inflight       int
	refreshPending bool // a refresh started here has not returned
	spinnerFrame   int
	spinnerActive bool

	quitting bool
}

// New creates a dashboard model driving ctrl. The model subscribes to the
// controller's state container; the subscription ends when the model quits.
func New(ctrl *dashboard.Controller, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	locale := opts.Locale
	if locale == "" {
		locale = localeFromEnv()
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 1)
	unsubscribe := ctrl.State().Subscribe(func(dashboard.State) {
		select {
		case changes <- struct{}{}:
		default:
			// A wakeup is already pending; the model reads the latest snapshot.
		}
	})

	return Model{
		ctrl:        ctrl,
		state:       ctrl.State().Snapshot(),
		changes:     changes,
		unsubscribe: unsubscribe,
		ctx:         ctx,
		cancel:      cancel,
		keys:        defaultKeyMap(),
		dates:       newDateFormat(locale),
		version:     opts.Version,
		logger:      logger,
		detail:      viewport.New(0, 0),
		width:       100,
		height:      24,
		// Init always issues the first refresh.
		inflight:       1,
		refreshPending: true,
		spinnerActive:  true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		m.waitForChange(),
		spinnerTick(), // Start spinner for initial load
	)
}

// stateChangedMsg is sent when the container has published a new state.
type stateChangedMsg struct{}

// refreshDoneMsg is sent when a refresh started by this model returns.
type refreshDoneMsg struct {
	err error
}

// deleteDoneMsg is sent when a confirmed delete returns.
type deleteDoneMsg struct {
	id  string
	err error
}

// spinnerTickMsg advances the loading spinner animation.
type spinnerTickMsg struct{}

// spinnerFrames are the Braille dot animation frames for the loading spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// waitForChange blocks until the container publishes a change or the model
// quits.
func (m Model) waitForChange() tea.Cmd {
	changes, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// refresh reloads the message list through the controller.
func (m Model) refresh() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: ctrl.Refresh(ctx)}
	}
}

// deleteMessage removes id through the controller. The confirm modal has
// already been accepted when this runs.
func (m Model) deleteMessage(id string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: ctrl.Delete(ctx, id, dashboard.Confirmed)}
	}
}

// spinnerTick returns a command that fires a spinnerTickMsg after the spinner interval.
func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// startSpinner returns a spinnerTick command if the spinner isn't already active,
// and marks it as active. Call this when loading begins.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinnerActive {
		return nil
	}
	m.spinnerActive = true
	m.spinnerFrame = 0
	return spinnerTick()
}

// refreshing reports whether a refresh is outstanding, whether this model
// started it or another caller of the controller did.
func (m Model) refreshing() bool {
	return m.refreshPending || m.state.Busy.Refreshing
}

// busy reports whether any remote operation is pending, either started by
// this model and not yet returned or recorded in the operation tracker.
func (m Model) busy() bool {
	return m.inflight > 0 || !m.state.Busy.Idle()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetail()
		m.ensureCursorVisible()
		return m, nil

	case stateChangedMsg:
		m.syncState()
		return m, m.waitForChange()

	case refreshDoneMsg:
		m.inflight--
		m.refreshPending = false
		if msg.err != nil && !errors.Is(msg.err, dashboard.ErrRefreshInProgress) {
			m.logger.Warn("refresh failed", "error", msg.err)
		}
		m.syncState()
		return m, nil

	case deleteDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.logger.Warn("delete failed", "id", msg.id, "error", msg.err)
		} else {
			m.logger.Info("deleted message", "id", msg.id)
		}
		m.syncState()
		return m, nil

	case spinnerTickMsg:
		if !m.busy() {
			m.spinnerActive = false
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()
	}

	return m, nil
}

// syncState reads the latest snapshot and keeps the cursor and detail pane
// consistent with it.
func (m *Model) syncState() {
	m.state = m.ctrl.State().Snapshot()
	m.clampCursor()
	m.ensureCursorVisible()
	m.updateDetail()

	// The row awaiting confirmation may have vanished after a refresh.
	if m.modal == modalDeleteConfirm {
		if _, ok := m.state.Find(m.pendingDelete); !ok {
			m.modal = modalNone
			m.pendingDelete = ""
		}
	}
}

// quit cancels outstanding remote calls and ends the subscription.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	m.unsubscribe()
	return m, tea.Quit
}

// cursorMessage returns the message under the list cursor.
func (m Model) cursorMessage() (dashboard.Message, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Messages) {
		return dashboard.Message{}, false
	}
	return m.state.Messages[m.cursor], true
}
