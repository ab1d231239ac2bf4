// Package coordinator drives one content domain: index load, search, cached
// content resolution and the listing/detail view state.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/RanjanLabs/RanjanLabs/internal/cache"
	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
	"github.com/RanjanLabs/RanjanLabs/internal/config"
	"github.com/RanjanLabs/RanjanLabs/internal/fetch"
	"github.com/RanjanLabs/RanjanLabs/internal/history"
	"github.com/RanjanLabs/RanjanLabs/internal/logging"
	"github.com/RanjanLabs/RanjanLabs/internal/render"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClient sets the client used for index and content fetches.
func WithClient(c *fetch.Client) Option {
	return func(co *Coordinator) { co.client = c }
}

// WithRenderer replaces the Markdown renderer. nil means no renderer, and
// Markdown degrades to preformatted text.
func WithRenderer(r *render.Renderer) Option {
	return func(co *Coordinator) { co.renderer = r }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(co *Coordinator) { co.log = l }
}

// WithHistory sets the navigable history of a permalink domain.
func WithHistory(h *history.History) Option {
	return func(co *Coordinator) { co.history = h }
}

// Coordinator is safe for concurrent use. Listeners run outside the lock.
type Coordinator struct {
	domain   config.Domain
	client   *fetch.Client
	renderer *render.Renderer
	log      *slog.Logger
	history  *history.History
	content  *cache.Content
	index    singleflight.Group

	mu        sync.Mutex
	entries   []catalog.Entry
	loaded    bool
	indexErr  error
	limit     int
	view      View
	gen       uint64
	nextSub   int
	listeners map[int]func(View)
}

// New builds a coordinator for d. d.Index and d.Base must already be absolute
// (see config.Config.Resolve).
func New(d config.Domain, opts ...Option) *Coordinator {
	var ropts []render.Option
	if d.Sanitize {
		ropts = append(ropts, render.WithSanitize())
	}
	c := &Coordinator{
		domain:    d,
		client:    fetch.New(nil, 0),
		renderer:  render.New(ropts...),
		log:       logging.Discard(),
		content:   cache.NewContent(),
		limit:     d.DefaultLimit,
		listeners: make(map[int]func(View)),
	}
	for _, o := range opts {
		o(c)
	}
	if d.Permalink && c.history == nil {
		c.history = history.New(c.pageURL())
	}
	c.log = c.log.With(slog.String("domain", d.Name))
	c.view = View{Domain: d.Name}
	return c
}

func (c *Coordinator) Domain() config.Domain { return c.domain }

// History is nil for domains without permalinks.
func (c *Coordinator) History() *history.History { return c.history }

// Subscribe registers fn for every state change and returns its cancel func.
func (c *Coordinator) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Entries returns the authoritative entry set in index order.
func (c *Coordinator) Entries() []catalog.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// CachedBodies is the number of content bodies held in memory.
func (c *Coordinator) CachedBodies() int { return c.content.Len() }

// LoadIndex fetches the domain index and publishes the default listing.
// Concurrent calls share one fetch. On failure the listing is replaced by the
// error; the coordinator stays usable and the error is returned for logging.
func (c *Coordinator) LoadIndex(ctx context.Context) error {
	_, err, _ := c.index.Do("index", func() (any, error) {
		return nil, c.loadIndex(ctx)
	})
	return err
}

func (c *Coordinator) loadIndex(ctx context.Context) error {
	c.mu.Lock()
	c.view.Listing.Loading = true
	c.changedLocked()
	c.mu.Unlock()
	c.publish()

	res, err := c.fetchIndex(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
		c.log.Error("index load failed", slog.String("url", c.domain.Index), slog.Any("err", err))

		c.mu.Lock()
		c.entries = nil
		c.loaded = false
		c.indexErr = err
		c.view.Listing = ListingView{Err: err}
		c.changedLocked()
		c.mu.Unlock()
		c.publish()
		return err
	}

	for _, e := range res.Errors {
		c.log.Warn("skipping index record", slog.Any("err", e))
	}
	entries := res.Entries
	if c.domain.SortByDate {
		catalog.SortByDate(entries)
	}
	c.log.Info("index loaded", slog.Int("entries", len(entries)))

	c.mu.Lock()
	c.entries = entries
	c.loaded = true
	c.indexErr = nil
	c.limit = c.domain.DefaultLimit
	if !c.view.Listing.Searching {
		c.view.Listing = c.defaultListingLocked()
	} else {
		c.view.Listing = c.searchListingLocked(c.view.Listing.Query)
	}
	c.changedLocked()
	c.mu.Unlock()
	c.publish()
	return nil
}

func (c *Coordinator) fetchIndex(ctx context.Context) (catalog.DecodeResult, error) {
	body, err := c.client.Open(ctx, c.domain.Index)
	if err != nil {
		return catalog.DecodeResult{}, err
	}
	defer body.Close()

	switch c.domain.IndexFormat() {
	case "rss", "atom":
		return catalog.DecodeFeed(body)
	default:
		return catalog.Decode(body, catalog.DecodeOptions{
			CategoryField: c.domain.Category(),
			DefaultType:   c.domain.ContentType(),
		})
	}
}

// Search filters the whole entry set by query. An empty query restores the
// default listing. An open detail view is closed first. Never fetches.
func (c *Coordinator) Search(query string) {
	q := catalog.NormalizeQuery(query)

	c.mu.Lock()
	if c.view.State == Detail {
		c.closeLocked(true)
	}
	if q == "" {
		c.view.Listing = c.defaultListingLocked()
	} else {
		c.view.Listing = c.searchListingLocked(q)
	}
	c.changedLocked()
	c.mu.Unlock()
	c.publish()
}

// ShowMore raises the cap of the default listing by one page and reports
// whether anything was added.
func (c *Coordinator) ShowMore() bool {
	c.mu.Lock()
	if c.view.Listing.Searching || !c.view.Listing.HasMore || c.domain.Chunk() <= 0 {
		c.mu.Unlock()
		return false
	}
	c.limit += c.domain.Chunk()
	c.view.Listing = c.defaultListingLocked()
	c.changedLocked()
	c.mu.Unlock()
	c.publish()
	return true
}

// SelectItem opens the detail view of the entry with id. Unknown ids are a
// no-op and report false. The returned error is the detail error, if any.
func (c *Coordinator) SelectItem(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	e, ok := catalog.Find(c.entries, id)
	if !ok {
		c.mu.Unlock()
		c.log.Debug("select ignored: unknown id", slog.String("id", id))
		return false, nil
	}
	gen := c.openLocked(e)
	c.mu.Unlock()
	c.publish()

	return true, c.resolve(ctx, e, gen, true)
}

// CloseDetail returns to the listing. It is a no-op in the listing.
func (c *Coordinator) CloseDetail() {
	c.mu.Lock()
	if c.view.State != Detail {
		c.mu.Unlock()
		return
	}
	c.closeLocked(true)
	c.changedLocked()
	c.mu.Unlock()
	c.publish()
}

// HandleHistoryNavigation derives the view from the current history URL: a
// parameter naming a known content file opens its detail, anything else shows
// the listing. History is not pushed. No-op for domains without permalinks.
func (c *Coordinator) HandleHistoryNavigation(ctx context.Context) error {
	if c.history == nil {
		return nil
	}
	file := c.history.Param(c.domain.ParamName())

	c.mu.Lock()
	e, ok := catalog.FindFile(c.entries, file)
	if !ok {
		if c.view.State == Detail {
			c.closeLocked(false)
			c.changedLocked()
			c.mu.Unlock()
			c.publish()
			return nil
		}
		c.mu.Unlock()
		return nil
	}
	gen := c.openLocked(e)
	c.mu.Unlock()
	c.publish()

	return c.resolve(ctx, e, gen, false)
}

// OpenPermalink replaces the current history entry with rawURL, loads the
// index if needed and derives the view from it.
func (c *Coordinator) OpenPermalink(ctx context.Context, rawURL string) error {
	if c.history == nil {
		return fmt.Errorf("domain %q has no permalinks", c.domain.Name)
	}
	c.history.Replace(rawURL)
	if !c.Loaded() {
		if err := c.LoadIndex(ctx); err != nil {
			return err
		}
	}
	return c.HandleHistoryNavigation(ctx)
}

// Permalink is the shareable URL selecting e. Empty for domains without
// permalinks.
func (c *Coordinator) Permalink(e catalog.Entry) string {
	if !c.domain.Permalink || e.FileName == "" {
		return ""
	}
	return history.WithParam(c.pageURL(), c.domain.ParamName(), e.FileName)
}

// ContentURL appends e's content file to the domain base, or to the index
// directory when no base is set. Absolute http, https and file URLs, as feed
// entries carry, are used as they are.
func (c *Coordinator) ContentURL(e catalog.Entry) (string, error) {
	if e.FileName == "" {
		return "", fmt.Errorf("entry %q has no content file", e.ID)
	}
	if u, err := url.Parse(e.FileName); err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return u.String(), nil
		}
	}

	base := c.domain.Base
	if base == "" {
		base = c.domain.Index
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base %q: %w", base, err)
	}
	if c.domain.Base == "" {
		b = b.ResolveReference(&url.URL{Path: "./"})
	}

	segs := strings.Split(strings.TrimLeft(e.FileName, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return b.JoinPath(segs...).String(), nil
}

// Reload drops the content cache, returns to the listing and reloads the index.
func (c *Coordinator) Reload(ctx context.Context) error {
	c.content.Clear()
	c.mu.Lock()
	if c.view.State == Detail {
		c.closeLocked(true)
		c.changedLocked()
	}
	c.mu.Unlock()
	c.publish()
	return c.LoadIndex(ctx)
}

// resolve fetches (or reuses) e's body and renders it into the detail view if
// gen is still the current selection.
func (c *Coordinator) resolve(ctx context.Context, e catalog.Entry, gen uint64, push bool) error {
	path, err := c.ContentURL(e)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrContentUnavailable, err)
		if !c.apply(gen, e, false, func(d *DetailView) { d.Err = err }) {
			return nil
		}
		return err
	}

	raw, hit, err := c.content.Load(ctx, path, c.client.Text)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrContentUnavailable, err)
		c.log.Warn("content fetch failed", slog.String("url", path), slog.Any("err", err))
		if !c.apply(gen, e, false, func(d *DetailView) { d.Err = err }) {
			return nil
		}
		return err
	}
	c.log.Debug("content resolved", slog.String("url", path), slog.Bool("cached", hit))

	out, rerr := render.Content(c.renderer, e.FileType, raw, c.domain.Isolated())
	if errors.Is(rerr, ErrRenderEngineMissing) {
		c.log.Warn("markdown renderer missing, showing raw text", slog.String("url", path))
		rerr = nil
	}
	if rerr != nil {
		c.log.Warn("content not renderable", slog.String("url", path), slog.Any("err", rerr))
	}

	ok := c.apply(gen, e, push && rerr == nil, func(d *DetailView) {
		d.Raw = raw
		d.Content = out
		d.Err = rerr
	})
	if !ok {
		return nil
	}
	return rerr
}

// apply runs fn on the detail view when gen is still current, optionally
// pushing e's permalink, and publishes. It reports whether it applied.
func (c *Coordinator) apply(gen uint64, e catalog.Entry, push bool, fn func(*DetailView)) bool {
	c.mu.Lock()
	if gen != c.gen || c.view.State != Detail {
		c.mu.Unlock()
		c.log.Debug("discarding stale selection", slog.String("id", e.ID))
		return false
	}
	c.view.Detail.Loading = false
	fn(&c.view.Detail)
	if push && c.history != nil {
		c.history.Push(history.WithParam(c.history.Current(), c.domain.ParamName(), e.FileName))
	}
	c.changedLocked()
	c.mu.Unlock()
	c.publish()
	return true
}

// openLocked switches to a loading detail view for e and returns the new
// selection generation.
func (c *Coordinator) openLocked(e catalog.Entry) uint64 {
	c.gen++
	c.view.State = Detail
	c.view.Detail = DetailView{Entry: e, Loading: true, Permalink: c.Permalink(e)}
	c.changedLocked()
	return c.gen
}

func (c *Coordinator) closeLocked(push bool) {
	c.gen++
	c.view.State = Listing
	c.view.Detail = DetailView{}
	if push && c.history != nil {
		c.history.Push(history.WithParam(c.history.Current(), c.domain.ParamName(), ""))
	}
}

func (c *Coordinator) defaultListingLocked() ListingView {
	folder := c.domain.DefaultFolder
	entries := catalog.DefaultListing(c.entries, catalog.ListingOptions{Folder: folder, Limit: c.limit})
	total := catalog.ScopedCount(c.entries, folder)
	return ListingView{
		Entries: entries,
		Total:   total,
		HasMore: len(entries) < total,
		Loaded:  c.loaded,
		Err:     c.indexErr,
	}
}

func (c *Coordinator) searchListingLocked(q string) ListingView {
	matches := catalog.Filter(c.entries, c.domain.Fields(), q)
	return ListingView{
		Entries:   matches,
		Query:     q,
		Searching: true,
		Total:     len(matches),
		Loaded:    c.loaded,
		Err:       c.indexErr,
	}
}

func (c *Coordinator) changedLocked() {
	c.view.Version++
}

func (c *Coordinator) publish() {
	c.mu.Lock()
	snap := c.view
	fns := make([]func(View), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// pageURL is the absolute page permalinks are built on, resolved against the
// index location.
func (c *Coordinator) pageURL() string {
	page := c.domain.PagePath()
	idx, err := url.Parse(c.domain.Index)
	if err != nil || !idx.IsAbs() {
		return page
	}
	ref, err := url.Parse(page)
	if err != nil {
		return page
	}
	return idx.ResolveReference(ref).String()
}
