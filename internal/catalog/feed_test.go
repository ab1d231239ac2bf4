package catalog

import (
	"strings"
	"testing"
)

func TestItemID(t *testing.T) {
	id1 := itemID("https://example.com/post-1")
	id2 := itemID("https://example.com/post-2")
	id1again := itemID("https://example.com/post-1")

	if id1 == id2 {
		t.Error("different URLs should produce different IDs")
	}
	if id1 != id1again {
		t.Error("same URL should produce same ID")
	}
	if len(id1) != 32 {
		t.Errorf("expected 32-char hex string, got %d chars: %s", len(id1), id1)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Insights</title>
<item>
  <title>Edge caching</title>
  <link>https://example.com/edge.html</link>
  <description>&lt;p&gt;How we cache at the edge&lt;/p&gt;</description>
  <category>Infrastructure</category>
  <pubDate>Mon, 05 Feb 2024 10:00:00 GMT</pubDate>
</item>
<item>
  <title>Duplicate</title>
  <link>https://example.com/edge.html</link>
</item>
<item>
  <title>No link</title>
</item>
</channel></rss>`

func TestDecodeFeed(t *testing.T) {
	res, err := DecodeFeed(strings.NewReader(sampleRSS))
	if err != nil {
		t.Fatalf("DecodeFeed: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 skipped items, got %d", len(res.Errors))
	}
	e := res.Entries[0]
	if e.FileName != "https://example.com/edge.html" || e.FileType != "html" {
		t.Errorf("unexpected content reference: %s (%s)", e.FileName, e.FileType)
	}
	if e.Summary != "How we cache at the edge" {
		t.Errorf("unexpected summary %q", e.Summary)
	}
	if e.Category != "Infrastructure" {
		t.Errorf("unexpected category %q", e.Category)
	}
	if e.Date != "2024-02-05" {
		t.Errorf("unexpected date %q", e.Date)
	}
}

func TestDecodeFeedInvalid(t *testing.T) {
	if _, err := DecodeFeed(strings.NewReader("not a feed")); err == nil {
		t.Error("expected error for non-feed input")
	}
}
