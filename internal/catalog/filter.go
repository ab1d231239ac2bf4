package catalog

import (
	"sort"
	"strings"
)

// NormalizeQuery lowercases raw search input. Whitespace is kept, so a lone
// space is still a filter.
func NormalizeQuery(q string) string {
	return strings.ToLower(q)
}

// Match reports whether any of fields contains query, case-insensitively.
// query must already be normalized.
func Match(e Entry, fields []string, query string) bool {
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(e.Field(f)), query) {
			return true
		}
	}
	return false
}

// Filter returns the entries matching query, preserving their order.
func Filter(entries []Entry, fields []string, query string) []Entry {
	query = NormalizeQuery(query)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Match(e, fields, query) {
			out = append(out, e)
		}
	}
	return out
}

// ListingOptions shapes the default (non-search) listing of a domain.
type ListingOptions struct {
	Folder string // keep only entries whose category equals Folder
	Limit  int    // 0 means no cap
}

// DefaultListing applies the folder scope and cap, preserving order.
func DefaultListing(entries []Entry, opts ListingOptions) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if opts.Folder != "" && !strings.EqualFold(e.Category, opts.Folder) {
			continue
		}
		out = append(out, e)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// ScopedCount is the size of the default listing without its cap.
func ScopedCount(entries []Entry, folder string) int {
	return len(DefaultListing(entries, ListingOptions{Folder: folder}))
}

// SortByDate orders entries newest first. Entries without a parseable date sort
// last; ties keep index order.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Published, entries[j].Published
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
}

// Find returns the entry with the given id.
func Find(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// FindFile returns the entry whose FileName is name.
func FindFile(entries []Entry, name string) (Entry, bool) {
	if name == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if e.FileName == name {
			return e, true
		}
	}
	return Entry{}, false
}
