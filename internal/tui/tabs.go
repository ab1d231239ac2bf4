package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// tabBar selects the active domain.
type tabBar struct {
	labels []string
	active int
}

func newTabBar(labels []string) tabBar {
	return tabBar{labels: labels}
}

func (t *tabBar) next() {
	if len(t.labels) == 0 {
		return
	}
	t.active = (t.active + 1) % len(t.labels)
}

func (t *tabBar) prev() {
	if len(t.labels) == 0 {
		return
	}
	t.active = (t.active - 1 + len(t.labels)) % len(t.labels)
}

// jump selects tab i and reports whether it exists.
func (t *tabBar) jump(i int) bool {
	if i < 0 || i >= len(t.labels) {
		return false
	}
	t.active = i
	return true
}

func (t *tabBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string
	for i, l := range t.labels {
		style := tabInactiveStyle
		if i == t.active {
			style = tabActiveStyle
		}
		label := l
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, l)
		}
		parts = append(parts, style.Render(label))
	}

	// Stop adding tabs once the row would overflow, but always keep the active one.
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			if i <= t.active {
				row = parts[t.active]
			}
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
