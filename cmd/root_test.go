package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RanjanLabs/RanjanLabs/internal/config"
	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
	"github.com/RanjanLabs/RanjanLabs/internal/fetch"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testCoordinators(t *testing.T) []*coordinator.Coordinator {
	t.Helper()
	files := map[string]string{
		"/Content/index.json": `[
  {"id": "1", "title": "Hello world", "summary": "Intro", "fileName": "hello.md", "fileType": "md", "folder": "blog", "date": "2024-02-01"},
  {"id": "2", "title": "Release notes", "summary": "Changes", "fileName": "notes.html", "fileType": "html", "folder": "news"},
  {"id": "3", "title": "Broken", "fileName": "missing.md", "fileType": "md", "folder": "blog"}
]`,
		"/Content/hello.md":   "# Hello\n\nWelcome **all**.",
		"/Content/notes.html": "<h2>Notes</h2><p>Fixed things.</p>",
		"/ToolLab/index.json": `[{"id": "calc", "title": "Calculator", "fileName": "calc.html"}]`,
		"/ToolLab/calc.html":  "<html><script>add()</script></html>",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Root: srv.URL + "/",
		Domains: []config.Domain{
			{Name: "blog", Index: "Content/index.json", Base: "Content/", CategoryField: "folder",
				DefaultFolder: "blog", DefaultLimit: 1, Permalink: true, Page: "/index.html", Enabled: true},
			{Name: "tools", Index: "ToolLab/index.json", Base: "ToolLab/", HTMLMode: "isolated", Enabled: true},
		},
	}
	client := fetch.New(srv.Client(), 5*time.Second)
	var coords []*coordinator.Coordinator
	for _, d := range cfg.EnabledDomains() {
		coords = append(coords, coordinator.New(d, coordinator.WithClient(client)))
	}
	return coords
}

func TestFindDomain(t *testing.T) {
	coords := testCoordinators(t)

	i, err := findDomain(coords, "TOOLS")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = findDomain(coords, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog, tools")
}

func TestMatchPermalink(t *testing.T) {
	coords := testCoordinators(t)

	i, err := matchPermalink(coords, "https://ranjanlabs.com/index.html?file=hello.md")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = matchPermalink(coords, "https://ranjanlabs.com/Other.html?file=x.md")
	assert.Error(t, err)
}

func TestPrintDomains(t *testing.T) {
	var buf bytes.Buffer
	printDomains(&buf, []config.Domain{
		{Name: "blog", Title: "Blog", Index: "https://x/Content/index.json", Permalink: true},
		{Name: "tools", Index: "https://x/ToolLab/index.json", HTMLMode: "isolated"},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "json,html,permalink")
	assert.Contains(t, lines[1], "isolated")
}

func TestRunList(t *testing.T) {
	coords := testCoordinators(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, runList(ctx, &buf, coords[0], "", false))
	out := buf.String()
	assert.Contains(t, out, "Hello world")
	assert.NotContains(t, out, "Release notes")
	assert.Contains(t, out, "1 of 2 entries")

	buf.Reset()
	require.NoError(t, runList(ctx, &buf, coords[0], "release", false))
	assert.Contains(t, buf.String(), "Release notes")
	assert.Contains(t, buf.String(), "SEARCH_RESULTS: 1")

	buf.Reset()
	require.NoError(t, runList(ctx, &buf, coords[0], "", true))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestRunShow(t *testing.T) {
	coords := testCoordinators(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, runShow(ctx, &buf, coords[0], "1", "text"))
	out := buf.String()
	assert.Contains(t, out, "Hello world\nblog · 2024-02-01")
	assert.Contains(t, out, "/index.html?file=hello.md")
	assert.Contains(t, out, "Welcome all.")

	buf.Reset()
	require.NoError(t, runShow(ctx, &buf, coords[0], "1", "html"))
	assert.Contains(t, buf.String(), "<strong>all</strong>")

	buf.Reset()
	require.NoError(t, runShow(ctx, &buf, coords[1], "calc", "html"))
	assert.True(t, strings.HasPrefix(buf.String(), "<iframe"))

	err := runShow(ctx, &buf, coords[0], "3", "text")
	assert.ErrorIs(t, err, coordinator.ErrContentUnavailable)

	err = runShow(ctx, &buf, coords[0], "999", "text")
	assert.Error(t, err)

	err = runShow(ctx, &buf, coords[0], "2", "pdf")
	assert.Error(t, err)
}

func TestRunOpen(t *testing.T) {
	coords := testCoordinators(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, runOpen(ctx, &buf, coords[0], "https://ranjanlabs.com/index.html?file=notes.html", "text"))
	assert.Contains(t, buf.String(), "Fixed things.")

	err := runOpen(ctx, &buf, coords[0], "https://ranjanlabs.com/index.html", "text")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RANJANLABS_ROOT=https://mirror.example.com/\n"), 0o644))
	t.Setenv(config.RootEnv, "")
	os.Unsetenv(config.RootEnv)

	flagEnvFile = path
	t.Cleanup(func() { flagEnvFile = "" })

	require.NoError(t, loadEnv(nil, nil))
	assert.Equal(t, "https://mirror.example.com/", os.Getenv(config.RootEnv))

	flagEnvFile = filepath.Join(t.TempDir(), "missing.env")
	assert.Error(t, loadEnv(nil, nil))
}
