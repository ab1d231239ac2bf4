package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "today"},
		{now.Add(-5 * time.Hour), "today"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15, 2025" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15, 2025")
	}
}

func TestEntryDatePlaceholder(t *testing.T) {
	if got := entryDate(catalog.Entry{}); got != "DATE UNKNOWN" {
		t.Errorf("entryDate(undated) = %q, want DATE UNKNOWN", got)
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := renderList(nil, 0, 9, 40, "No matches")
	if !strings.Contains(got, "No matches") {
		t.Errorf("expected empty message, got %q", got)
	}
}

func TestRenderListMarksCursor(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Title: "First"},
		{ID: "2", Title: "Second"},
	}
	got := renderList(entries, 1, 9, 40, "")
	if !strings.Contains(got, "> Second") {
		t.Errorf("expected cursor on Second, got %q", got)
	}
	if strings.Contains(got, "> First") {
		t.Errorf("cursor should not be on First, got %q", got)
	}
}

func TestTabBar(t *testing.T) {
	tb := newTabBar([]string{"Blog", "Tools", "Courses"})
	tb.next()
	if tb.active != 1 {
		t.Errorf("next: active = %d, want 1", tb.active)
	}
	tb.prev()
	tb.prev()
	if tb.active != 2 {
		t.Errorf("prev should wrap: active = %d, want 2", tb.active)
	}
	if tb.jump(5) {
		t.Error("jump past the last tab should fail")
	}
	if !tb.jump(0) || tb.active != 0 {
		t.Errorf("jump(0): active = %d", tb.active)
	}
	if row := tb.render(80); !strings.Contains(row, "1 Blog") {
		t.Errorf("expected numbered labels, got %q", row)
	}
}

func TestWrapParagraphs(t *testing.T) {
	got := wrapParagraphs("one two three\n\nfour", 7)
	want := "one two\nthree\n\nfour"
	if got != want {
		t.Errorf("wrapParagraphs = %q, want %q", got, want)
	}
}

func TestClip(t *testing.T) {
	got := clip("a\nb\nc\nd", 2, 1)
	if got != "b\nc" {
		t.Errorf("clip = %q, want %q", got, "b\nc")
	}
	if got := clip("a", 3, 0); got != "a\n\n" {
		t.Errorf("clip should pad, got %q", got)
	}
}
