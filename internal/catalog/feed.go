package catalog

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const feedSummaryLen = 300

// DecodeFeed reads an RSS or Atom index. Every item becomes an HTML entry whose
// FileName is the item link, so its content is fetched from the link itself.
func DecodeFeed(r io.Reader) (DecodeResult, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("parsing feed: %w", err)
	}

	var (
		result DecodeResult
		seen   = make(map[string]bool, len(feed.Items))
	)
	for i, item := range feed.Items {
		if item.Link == "" {
			result.Errors = append(result.Errors, fmt.Errorf("item %d: no link", i))
			continue
		}
		id := itemID(item.Link)
		if seen[id] {
			result.Errors = append(result.Errors, fmt.Errorf("item %d: duplicate link %s", i, item.Link))
			continue
		}
		seen[id] = true

		var pub time.Time
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		e := Entry{
			ID:        id,
			Title:     item.Title,
			Summary:   truncate(stripHTML(desc), feedSummaryLen),
			FileName:  item.Link,
			FileType:  "html",
			Published: pub,
		}
		if len(item.Categories) > 0 {
			e.Category = item.Categories[0]
		}
		if !pub.IsZero() {
			e.Date = pub.Format("2006-01-02")
		}
		if item.Author != nil {
			e.Fields = map[string]string{"author": item.Author.Name}
		}
		result.Entries = append(result.Entries, e)
	}
	return result, nil
}

func itemID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
