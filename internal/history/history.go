// Package history is a browser-like navigable history of URLs. Permalink
// domains mirror their view state into it through a query parameter.
package history

import (
	"net/url"
	"sync"
)

type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

// New starts a history at start.
func New(start string) *History {
	return &History{entries: []string{start}}
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Push appends u after the current entry, dropping any forward entries. Pushing
// the current URL again is a no-op.
func (h *History) Push(u string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.pos] == u {
		return
	}
	h.entries = append(h.entries[:h.pos+1], u)
	h.pos++
}

// Replace overwrites the current entry.
func (h *History) Replace(u string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = u
}

// Back moves one entry back and reports whether it moved.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return false
	}
	h.pos--
	return true
}

// Forward moves one entry forward and reports whether it moved.
func (h *History) Forward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos >= len(h.entries)-1 {
		return false
	}
	h.pos++
	return true
}

func (h *History) CanBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos > 0
}

func (h *History) CanForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos < len(h.entries)-1
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Param returns the named query parameter of the current URL.
func (h *History) Param(name string) string {
	u, err := url.Parse(h.Current())
	if err != nil {
		return ""
	}
	return u.Query().Get(name)
}

// WithParam returns raw with the query parameter name set to value, or removed
// when value is empty.
func WithParam(raw, name, value string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if value == "" {
		q.Del(name)
	} else {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
