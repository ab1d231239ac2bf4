package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`█▀█ ▄▀█ █▄ █   █ ▄▀█ █▄ █   █   ▄▀█ █▄▄ █▀`,
	`█▀▄ █▀█ █ ▀█ █▄█ █▀█ █ ▀█   █▄▄ █▀█ █▄█ ▄█`,
}

type helpKey struct {
	keys string
	desc string
}

var helpSections = []struct {
	title string
	keys  []helpKey
}{
	{"Navigation", []helpKey{
		{"tab, shift+tab", "Next / previous domain"},
		{"1-9", "Jump to domain"},
		{"j/k, ↑/↓", "Move in the listing, scroll the detail"},
		{"enter", "Open the selected entry"},
		{"esc, backspace", "Close the detail"},
		{"[ / ]", "History back / forward"},
	}},
	{"Listing", []helpKey{
		{"/, ctrl+k", "Search this domain"},
		{"m", "Show more entries"},
		{"r", "Reload the index"},
	}},
	{"Entry", []helpKey{
		{"o", "Open in the system browser"},
		{"y", "Show the permalink"},
	}},
	{"General", []helpKey{
		{"t", "Toggle dark / light theme"},
		{"?", "Toggle this help"},
		{"q, ctrl+c", "Quit"},
	}},
}

// renderHelpScreen draws the logo, the key reference and the update notice.
func renderHelpScreen(width, height int, updateVersion string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")

	for _, sec := range helpSections {
		lines = append(lines, helpDimStyle.Render(sec.title))
		for _, k := range sec.keys {
			lines = append(lines, "  "+keyStyle.Render(padRight(k.keys, 16))+labelStyle.Render(k.desc))
		}
		lines = append(lines, "")
	}

	if updateVersion != "" {
		lines = append(lines, logoStyle.Render("Update available: v"+updateVersion))
	}

	card := helpCardStyle.Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func padRight(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-w)
}
