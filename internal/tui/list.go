package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < 24*time.Hour:
		return "today"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case t.Year() == time.Now().Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func entryDate(e catalog.Entry) string {
	if e.Published.IsZero() {
		return e.DisplayDate()
	}
	return relativeTime(e.Published)
}

func renderListItem(e catalog.Entry, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(e.DisplayTitle(), width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(e.DisplayTitle(), width-4))
	}

	meta := "  " + itemCategoryStyle.Render(truncateStr(e.DisplayCategory(), width/2)) +
		" " + itemDateStyle.Render("· "+entryDate(e))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// renderList draws the visible window of entries around cursor. empty is shown
// when there are no entries.
func renderList(entries []catalog.Entry, cursor int, height int, width int, empty string) string {
	if len(entries) == 0 {
		return lipglossCenter(empty, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(entries) {
		end = len(entries)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(entries[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
