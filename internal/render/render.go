// Package render turns fetched content bodies into embeddable HTML.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	// ErrUnknownType is returned for a declared file type that is neither
	// Markdown nor HTML.
	ErrUnknownType = errors.New("unknown content type")

	// ErrEngineMissing accompanies the preformatted fallback used when no
	// Markdown renderer is available. The output is still usable.
	ErrEngineMissing = errors.New("markdown renderer unavailable")
)

// Kind is the normalized content type of an entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindMarkdown
	KindHTML
)

// KindOf maps a declared fileType to a Kind.
func KindOf(fileType string) Kind {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), ".")) {
	case "md", "markdown":
		return KindMarkdown
	case "html", "htm":
		return KindHTML
	default:
		return KindUnknown
	}
}

// Renderer converts Markdown to HTML with goldmark.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

type Option func(*Renderer)

// WithSanitize filters rendered and embedded HTML through a UGC policy.
func WithSanitize() Option {
	return func(r *Renderer) {
		r.policy = bluemonday.UGCPolicy()
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Markdown converts src to HTML.
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return r.sanitize(buf.String()), nil
}

func (r *Renderer) sanitize(s string) string {
	if r == nil || r.policy == nil {
		return s
	}
	return r.policy.Sanitize(s)
}

// Content dispatches raw on fileType. A nil renderer degrades Markdown to a
// preformatted block and reports ErrEngineMissing alongside the output.
// Isolated HTML is wrapped in a sandboxed iframe instead of being embedded.
func Content(r *Renderer, fileType, raw string, isolated bool) (string, error) {
	switch KindOf(fileType) {
	case KindMarkdown:
		if r == nil {
			return Preformatted(raw), ErrEngineMissing
		}
		return r.Markdown(raw)
	case KindHTML:
		if isolated {
			return Isolated(raw), nil
		}
		return r.sanitize(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, fileType)
	}
}

// Preformatted escapes text into a <pre> block.
func Preformatted(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}

// Isolated embeds a full HTML document in a sandboxed iframe so its styles and
// scripts cannot reach the host page.
func Isolated(doc string) string {
	return `<iframe sandbox="allow-scripts" srcdoc="` + html.EscapeString(doc) + `"></iframe>`
}
