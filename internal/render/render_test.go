package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"md", KindMarkdown},
		{"Markdown", KindMarkdown},
		{".md", KindMarkdown},
		{"html", KindHTML},
		{"HTM", KindHTML},
		{"pdf", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindOf(tt.in); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContentMarkdown(t *testing.T) {
	out, err := Content(New(), "md", "# Alpha\n\nfirst *post*", false)
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="alpha">Alpha</h1>`)
	assert.Contains(t, out, "<em>post</em>")
}

func TestContentMarkdownTable(t *testing.T) {
	out, err := Content(New(), "md", "| a | b |\n|---|---|\n| 1 | 2 |\n", false)
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestContentHTMLEmbedsVerbatim(t *testing.T) {
	raw := `<div class="tool"><script>run()</script></div>`
	out, err := Content(New(), "html", raw, false)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestContentHTMLIsolated(t *testing.T) {
	out, err := Content(New(), "html", `<p class="x">hi</p>`, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<iframe sandbox="allow-scripts" srcdoc="`))
	assert.Contains(t, out, "&lt;p class=&#34;x&#34;&gt;hi&lt;/p&gt;")
}

func TestContentSanitize(t *testing.T) {
	r := New(WithSanitize())
	out, err := Content(r, "md", "hello <script>alert(1)</script>", false)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	out, err = Content(r, "html", `<p onclick="x()">hi</p>`, false)
	require.NoError(t, err)
	assert.NotContains(t, out, "onclick")
}

func TestContentEngineMissing(t *testing.T) {
	out, err := Content(nil, "md", "# a < b", false)
	assert.True(t, errors.Is(err, ErrEngineMissing))
	assert.Equal(t, "<pre># a &lt; b</pre>", out)
}

func TestContentUnknownType(t *testing.T) {
	_, err := Content(New(), "pdf", "%PDF", false)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestPlainText(t *testing.T) {
	in := `<h1>Title</h1><p>Hello <b>world</b> &amp; co</p><ul><li>one</li><li>two</li></ul>` +
		`<script>ignored()</script><pre><code>x := 1
  y := 2</code></pre>`
	got := PlainText(in)
	want := "Title\nHello world & co\n• one\n• two\nx := 1\n  y := 2"
	assert.Equal(t, want, got)
}

func TestPlainTextTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare angle brackets in text", "<p>if a < b and c > d then</p>", "if a < b and c > d then"},
		{"comment with angle bracket", "<p>keep <!-- x > y --> this</p>", "keep this"},
		{"angle bracket in attribute", `<p><a title="1 > 0">link</a> tail</p>`, "link tail"},
		{"escaped script body", "<p>a</p><script>if (x < 1) { y = '</p>' }</script><p>b</p>", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestPlainTextCollapsesBlankLines(t *testing.T) {
	got := PlainText("<p>a</p>\n\n\n<div></div><div></div><p>b</p>")
	assert.Equal(t, "a\nb", got)
}
