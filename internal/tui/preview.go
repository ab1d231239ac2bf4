package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
	"github.com/RanjanLabs/RanjanLabs/internal/render"
)

// previewSkip lists fields already shown in the preview header.
var previewSkip = map[string]bool{
	"id": true, "title": true, "name": true, "summary": true, "description": true,
	"filename": true, "filetype": true, "date": true, "searchablecontent": true,
}

// renderPreview shows the summary of the entry under the cursor.
func renderPreview(e *catalog.Entry, width, height int) string {
	if e == nil {
		return lipglossCenter("Select an entry", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(e.DisplayTitle())
	meta := detailMetaStyle.Render(fmt.Sprintf("%s · %s", e.DisplayCategory(), e.DisplayDate()))

	summary := e.Summary
	if summary == "" {
		summary = "(No summary available)"
	}
	body := detailBodyStyle.Width(contentWidth).Render(wrapText(summary, contentWidth))

	var extra []string
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if !previewSkip[k] && e.Fields[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		extra = append(extra, itemDateStyle.Render(k+": ")+truncateStr(e.Fields[k], contentWidth-len(k)-2))
	}

	parts := []string{title, meta, "", body}
	if len(extra) > 0 {
		parts = append(parts, "", strings.Join(extra, "\n"))
	}
	parts = append(parts, detailLinkStyle.Width(contentWidth).Render("enter open · "+e.FileName))

	return clip(lipgloss.JoinVertical(lipgloss.Left, parts...), height, 0)
}

// renderDetail shows the selected entry: spinner while loading, the error
// placeholder on failure, otherwise the content as terminal text.
func renderDetail(d coordinator.DetailView, spin string, width, height, scroll int) string {
	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(d.Entry.DisplayTitle())
	meta := detailMetaStyle.Render(fmt.Sprintf("%s · %s", d.Entry.DisplayCategory(), d.Entry.DisplayDate()))

	var body string
	switch {
	case d.Loading:
		body = spin + " Loading " + d.Entry.FileName + "..."
	case d.Err != nil:
		body = errorStyle.Render(errorPlaceholder(d.Err)) + "\n\n" +
			detailBodyStyle.Width(contentWidth).Render(wrapText(d.Err.Error(), contentWidth))
	default:
		body = detailBodyStyle.Width(contentWidth).Render(wrapParagraphs(detailText(d), contentWidth))
	}

	parts := []string{title, meta, "", body}
	if d.Permalink != "" {
		parts = append(parts, detailLinkStyle.Width(contentWidth).Render(d.Permalink))
	}

	return clip(lipgloss.JoinVertical(lipgloss.Left, parts...), height, scroll)
}

// detailText projects the detail onto plain text. HTML bodies are read from
// the source since isolated content renders to an iframe.
func detailText(d coordinator.DetailView) string {
	if render.KindOf(d.Entry.FileType) == render.KindHTML {
		return render.PlainText(d.Raw)
	}
	return render.PlainText(d.Content)
}

func errorPlaceholder(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrUnknownContentType):
		return "This content type cannot be displayed."
	case errors.Is(err, coordinator.ErrContentUnavailable):
		return "Content unavailable."
	default:
		return "Something went wrong."
	}
}

// clip applies the scroll offset and pads or cuts content to height lines.
func clip(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// wrapParagraphs wraps each line of s separately, keeping blank lines.
func wrapParagraphs(s string, width int) string {
	src := strings.Split(s, "\n")
	out := make([]string, 0, len(src))
	for _, l := range src {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wrapText(l, width))
	}
	return strings.Join(out, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
