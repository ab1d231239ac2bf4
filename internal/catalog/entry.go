// Package catalog models a domain index and the pure listing operations over it.
package catalog

import (
	"strings"
	"time"
)

const (
	placeholderTitle    = "Untitled"
	placeholderDate     = "DATE UNKNOWN"
	placeholderCategory = "Uncategorized"
)

// Entry is one record of a domain index.
type Entry struct {
	ID        string
	Title     string
	Summary   string
	FileName  string
	FileType  string
	Category  string
	Date      string
	Published time.Time

	// Fields holds every scalar field of the record keyed by its lowercased
	// name, for the searchable field selector.
	Fields map[string]string
}

// Field returns a raw field by name, case-insensitively, falling back to the
// normalized attributes for records that never carried the raw key.
func (e Entry) Field(name string) string {
	key := strings.ToLower(name)
	if v, ok := e.Fields[key]; ok {
		return v
	}
	switch key {
	case "id":
		return e.ID
	case "title", "name":
		return e.Title
	case "summary", "description":
		return e.Summary
	case "category":
		return e.Category
	case "date":
		return e.Date
	case "filename":
		return e.FileName
	}
	return ""
}

func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return placeholderTitle
	}
	return e.Title
}

func (e Entry) DisplayDate() string {
	if e.Date == "" {
		return placeholderDate
	}
	return e.Date
}

func (e Entry) DisplayCategory() string {
	if e.Category == "" {
		return placeholderCategory
	}
	return e.Category
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"2006-01",
}

// ParseDate tries the date layouts seen in index files. The zero time means the
// date did not parse.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
