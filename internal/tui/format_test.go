package tui

import (
	"testing"

	"github.com/contactdesk/contactdesk/internal/testutil"
	"github.com/mattn/go-runewidth"
)

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abc"},
		{"日本", 5, "日本 "},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"ellipsis", "hello world", 8, "hello..."},
		{"tiny", "hello", 2, "he"},
		{"newlines flattened", "a\nb\tc", 10, "a b c"},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.width); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateRunesWide(t *testing.T) {
	got := truncateRunes("日本語のメッセージ", 9)
	testutil.AssertValidUTF8(t, got)
	if w := runewidth.StringWidth(got); w > 9 {
		t.Errorf("width = %d, want <= 9", w)
	}
}

func TestWrapText(t *testing.T) {
	testutil.AssertStrings(t, wrapText("one\ntwo", 20), "one", "two")
	testutil.AssertStrings(t, wrapText("hello brave new world", 11), "hello brave", "new world")
	testutil.AssertStrings(t, wrapText("a\r\n\nb", 5), "a", "", "b")
	testutil.AssertStrings(t, wrapText("abcdefgh", 3), "abc", "def", "gh")
}
