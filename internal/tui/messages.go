package tui

import "github.com/RanjanLabs/RanjanLabs/internal/coordinator"

// viewChangedMsg carries a coordinator snapshot. Snapshots can arrive out of
// order; the App keeps the highest Version per domain.
type viewChangedMsg struct {
	domain int
	view   coordinator.View
}

// opDoneMsg ends an asynchronous coordinator operation.
type opDoneMsg struct {
	domain int
	op     string
	err    error
}

type errMsg struct {
	err error
}

type updateMsg struct {
	version string
}

type themeSavedMsg struct {
	err error
}
