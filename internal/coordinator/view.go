package coordinator

import (
	"errors"

	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
	"github.com/RanjanLabs/RanjanLabs/internal/render"
)

// ViewState is the display mode of a domain.
type ViewState int

const (
	Listing ViewState = iota
	Detail
)

func (s ViewState) String() string {
	switch s {
	case Listing:
		return "listing"
	case Detail:
		return "detail"
	default:
		return "unknown"
	}
}

var (
	// ErrIndexUnavailable replaces the whole listing when the index fetch fails.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrContentUnavailable is scoped to the detail view of one entry.
	ErrContentUnavailable = errors.New("content unavailable")

	ErrUnknownContentType  = render.ErrUnknownType
	ErrRenderEngineMissing = render.ErrEngineMissing
)

// ListingView is the grid of entry summaries.
type ListingView struct {
	Entries   []catalog.Entry
	Query     string
	Searching bool
	Total     int  // size of the set Entries was drawn from
	HasMore   bool // the default listing is capped below Total
	Loading   bool
	Loaded    bool
	Err       error
}

// DetailView is one selected entry.
type DetailView struct {
	Entry     catalog.Entry
	Loading   bool
	Content   string // rendered HTML
	Raw       string
	Err       error
	Permalink string
}

// View is a snapshot of a coordinator. Version increases with every change, so
// a consumer can ignore snapshots older than one it already applied.
type View struct {
	Domain  string
	Version uint64
	State   ViewState
	Listing ListingView
	Detail  DetailView
}
