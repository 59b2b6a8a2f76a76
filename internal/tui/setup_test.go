package tui

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/contactdesk/contactdesk/internal/testutil"
	"github.com/muesli/termenv"
)

// ansiStart is the escape sequence prefix found in styled terminal output.
const ansiStart = "\x1b["

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output. It acquires colorProfileMu to prevent data races with
// parallel tests and restores the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// fakeService is an in-memory dashboard.MessageService.
type fakeService struct {
	mu        sync.Mutex
	messages  []dashboard.Message
	listErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeService) ListMessages(context.Context) ([]dashboard.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dashboard.Message(nil), f.messages...), nil
}

func (f *fakeService) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i:i], f.messages[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeService) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// standardMessages returns three messages a, b and c with distinct names.
func standardMessages() []dashboard.Message {
	return []dashboard.Message{
		testutil.NewMessage("a").WithName("Alice").WithEmail("alice@example.com").
			WithBody("First line\nSecond line").Build(),
		testutil.NewMessage("b").WithName("Bob").WithEmail("bob@example.com").
			WithCreatedAt(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)).Build(),
		testutil.NewMessage("c").WithName("Carol").WithEmail("carol@example.com").Build(),
	}
}

// newTestModel builds an unloaded model over svc with a 100x24 terminal,
// US date layouts and UTC times.
func newTestModel(t *testing.T, svc *fakeService) (Model, *dashboard.Controller) {
	t.Helper()
	ctrl := dashboard.NewController(svc, dashboard.NewContainer(dashboard.State{}))
	m := New(ctrl, Options{Version: "test123", Locale: "en-US", Logger: testutil.DiscardLogger()})
	m.dates.loc = time.UTC
	t.Cleanup(func() {
		m.cancel()
		m.unsubscribe()
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	return m, ctrl
}

// loadedModel builds a model and completes its initial refresh.
func loadedModel(t *testing.T, svc *fakeService) (Model, *dashboard.Controller) {
	t.Helper()
	m, ctrl := newTestModel(t, svc)
	m = update(t, m, m.refresh()())
	return m, ctrl
}

// update applies msg and returns the resulting Model.
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key press and returns the new model and command.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runCmd executes cmd, expanding batches, and returns every message
// produced. Spinner ticks are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil, spinnerTickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// apply runs cmd and feeds its messages back into the model.
func apply(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		m = update(t, m, msg)
	}
	return m
}
