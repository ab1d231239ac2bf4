package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
)

type statusInfo struct {
	domain        string
	view          coordinator.View
	searching     bool
	updateVersion string
	notice        string
	width         int
}

func renderStatusBar(s statusInfo) string {
	l := s.view.Listing

	var left string
	switch {
	case l.Loading && !l.Loaded:
		left = fmt.Sprintf(" %s · loading index...", s.domain)
	case l.Err != nil && !l.Loaded:
		left = fmt.Sprintf(" %s · index unavailable", s.domain)
	case l.Searching:
		left = fmt.Sprintf(" %s · SEARCH_RESULTS: %d", s.domain, len(l.Entries))
	default:
		left = fmt.Sprintf(" %s · %d of %d entries", s.domain, len(l.Entries), l.Total)
		if l.HasMore {
			left += " · m more"
		}
	}

	if s.notice != "" {
		left += " · " + noticeStyle.Render(s.notice)
	} else if s.updateVersion != "" {
		left += " · " + noticeStyle.Render("update available: v"+s.updateVersion)
	}

	right := " / search  tab domain  ? help  q quit "
	switch {
	case s.searching:
		right = " esc clear  enter done "
	case s.view.State == coordinator.Detail:
		right = " esc back  o open  y link  [ ] history "
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(s.width).Render(bar)
}
