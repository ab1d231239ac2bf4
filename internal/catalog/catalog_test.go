package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `[
  {"id": 1, "title": "Alpha", "summary": "first", "fileName": "a.md", "fileType": "md", "folder": "blog", "date": "2024-01-01"},
  {"id": 2, "title": "Beta", "summary": "second", "fileName": "b.html", "fileType": "html", "folder": "other", "date": "2024-02-01"},
  {"id": "3", "name": "Gamma", "description": "third", "fileName": "c.md", "folder": "blog", "searchableContent": "Kubernetes notes", "tags": ["x"]},
  "not an object",
  {"id": 1, "title": "Dup", "fileName": "d.md"},
  {"id": 5, "title": "Dup file", "fileName": "a.md"},
  {"title": "No id"}
]`

func decodeSample(t *testing.T) []Entry {
	t.Helper()
	res, err := Decode(strings.NewReader(sampleIndex), DecodeOptions{CategoryField: "folder", DefaultType: "md"})
	require.NoError(t, err)
	return res.Entries
}

func TestDecode(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleIndex), DecodeOptions{CategoryField: "folder", DefaultType: "md"})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Len(t, res.Errors, 4)

	a := res.Entries[0]
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "Alpha", a.Title)
	assert.Equal(t, "blog", a.Category)
	assert.Equal(t, 2024, a.Published.Year())

	g := res.Entries[2]
	assert.Equal(t, "3", g.ID)
	assert.Equal(t, "Gamma", g.Title, "name should back-fill title")
	assert.Equal(t, "third", g.Summary, "description should back-fill summary")
	assert.Equal(t, "md", g.FileType, "default type applies when fileType is absent")
	assert.Equal(t, "Kubernetes notes", g.Field("searchableContent"))
	assert.Equal(t, "", g.Field("tags"), "nested values are not searchable")
	assert.Equal(t, "DATE UNKNOWN", g.DisplayDate())
}

func TestDecodeDefaultsToHTML(t *testing.T) {
	res, err := Decode(strings.NewReader(`[{"id":"x","fileName":"x"}]`), DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "html", res.Entries[0].FileType)
	assert.Equal(t, "Untitled", res.Entries[0].DisplayTitle())
	assert.Equal(t, "Uncategorized", res.Entries[0].DisplayCategory())
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": 1}`), DecodeOptions{})
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	entries := decodeSample(t)
	fields := []string{"title", "summary", "searchableContent"}

	got := Filter(entries, fields, "KUBERNETES")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	assert.Empty(t, Filter(entries, fields, " KUBERNETES "), "surrounding spaces are part of the query")

	got = Filter(entries, fields, "a")
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids, "order follows the index")

	assert.Empty(t, Filter(entries, []string{"title"}, "second"), "only configured fields are searched")
	assert.Len(t, Filter(entries, fields, ""), 3)
}

func TestDefaultListing(t *testing.T) {
	entries := decodeSample(t)

	got := DefaultListing(entries, ListingOptions{Folder: "blog"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	got = DefaultListing(entries, ListingOptions{Folder: "blog", Limit: 1})
	require.Len(t, got, 1)
	assert.Equal(t, 2, ScopedCount(entries, "blog"))
	assert.Len(t, DefaultListing(entries, ListingOptions{}), 3)
}

func TestSortByDate(t *testing.T) {
	entries := decodeSample(t)
	SortByDate(entries)
	assert.Equal(t, "2", entries[0].ID)
	assert.Equal(t, "1", entries[1].ID)
	assert.Equal(t, "3", entries[2].ID, "undated entries sort last")
}

func TestFind(t *testing.T) {
	entries := decodeSample(t)

	e, ok := Find(entries, "2")
	require.True(t, ok)
	assert.Equal(t, "Beta", e.Title)

	_, ok = Find(entries, "404")
	assert.False(t, ok)

	e, ok = FindFile(entries, "c.md")
	require.True(t, ok)
	assert.Equal(t, "3", e.ID)

	_, ok = FindFile(entries, "")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2024-01-01", false},
		{"2024-01-01T10:00:00Z", false},
		{"Jan 2, 2024", false},
		{"soon", true},
		{"", true},
	}
	for _, tt := range tests {
		got := ParseDate(tt.in)
		if got.IsZero() != tt.zero {
			t.Errorf("ParseDate(%q) zero=%v, want %v", tt.in, got.IsZero(), tt.zero)
		}
	}
}
