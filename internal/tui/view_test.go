package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/contactdesk/contactdesk/internal/testutil"
)

// assertLineWidths checks that every rendered line fills exactly width cells.
func assertLineWidths(t *testing.T, view string, width int) {
	t.Helper()
	for i, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, stripANSI(line))
		}
	}
}

func TestViewFillsTerminal(t *testing.T) {
	sizes := []struct{ w, h int }{{100, 24}, {80, 30}, {60, 12}, {140, 40}}
	for _, sz := range sizes {
		m, _ := loadedModel(t, &fakeService{messages: standardMessages()})
		m = update(t, m, tea.WindowSizeMsg{Width: sz.w, Height: sz.h})
		m, _ = press(t, m, "enter")

		view := m.View()
		if got := len(strings.Split(view, "\n")); got != sz.h {
			t.Errorf("%dx%d: %d lines, want %d", sz.w, sz.h, got, sz.h)
		}
		assertLineWidths(t, view, sz.w)
	}
}

func TestViewWithBannerKeepsHeight(t *testing.T) {
	m, _ := loadedModel(t, &fakeService{listErr: &testReasonErr{"backend down"}})
	view := m.View()
	if got := len(strings.Split(view, "\n")); got != m.height {
		t.Errorf("%d lines with banner, want %d", got, m.height)
	}
	assertLineWidths(t, view, m.width)
}

type testReasonErr struct{ reason string }

func (e *testReasonErr) Error() string  { return "server said: " + e.reason }
func (e *testReasonErr) Reason() string { return e.reason }

func TestViewModalsKeepWidth(t *testing.T) {
	m, ctrl := loadedModel(t, &fakeService{messages: standardMessages()})

	m, _ = press(t, m, "d")
	assertLineWidths(t, m.View(), m.width)
	m, _ = press(t, m, "n")

	m, _ = press(t, m, "?")
	assertLineWidths(t, m.View(), m.width)
	m, _ = press(t, m, "x")

	ctrl.State().Update(func(s dashboard.State) dashboard.State {
		return s.FailDelete("a", strings.Repeat("a very long failure reason ", 10))
	})
	m = update(t, m, stateChangedMsg{})
	assertLineWidths(t, m.View(), m.width)
}

func TestCursorRowStyled(t *testing.T) {
	forceColorProfile(t)
	m, _ := loadedModel(t, &fakeService{messages: standardMessages()})

	var aliceLine string
	for _, line := range strings.Split(m.View(), "\n") {
		if strings.Contains(stripANSI(line), "Alice") {
			aliceLine = line
			break
		}
	}
	if aliceLine == "" {
		t.Fatal("cursor row not rendered")
	}
	if !strings.Contains(aliceLine, ansiStart) {
		t.Error("cursor row should carry styling")
	}
	if !strings.Contains(stripANSI(aliceLine), "▶") {
		t.Error("cursor row should show the cursor marker")
	}
}

func TestSelectedMarker(t *testing.T) {
	m, _ := loadedModel(t, &fakeService{messages: standardMessages()})
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "j")

	view := stripANSI(m.View())
	testutil.AssertContainsAll(t, view, " ● Alice", "▶  Bob")
}

func TestTitleShowsVersion(t *testing.T) {
	m, _ := loadedModel(t, &fakeService{})
	testutil.AssertContainsAll(t, stripANSI(m.View()), "contactdesk [test123] - Admin Dashboard", refreshLabel, appSubtitle)

	m.version = "dev"
	testutil.AssertContainsNone(t, stripANSI(m.View()), "[dev]")
}

func TestMessageBodyVerbatim(t *testing.T) {
	body := "Line one\n\n  indented line\nLast"
	msg := testutil.NewMessage("x").WithBody(body).Build()
	m, _ := loadedModel(t, &fakeService{messages: []dashboard.Message{msg}})
	m, _ = press(t, m, "enter")

	view := stripANSI(m.View())
	testutil.AssertContainsAll(t, view, "Line one", "  indented line", "Last")
}
