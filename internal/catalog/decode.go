package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeOptions maps a domain's index records onto Entry.
type DecodeOptions struct {
	CategoryField string
	DefaultType   string
}

// DecodeResult holds the entries of an index and the records that were skipped.
type DecodeResult struct {
	Entries []Entry
	Errors  []error
}

var (
	titleKeys   = []string{"title", "name"}
	summaryKeys = []string{"summary", "description", "tagline"}
	dateKeys    = []string{"date", "releasedate", "published"}
)

// Decode reads a JSON array index. Only a top-level value that is not an array
// is fatal; bad records are skipped and reported in DecodeResult.Errors.
func Decode(r io.Reader, opts DecodeOptions) (DecodeResult, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return DecodeResult{}, fmt.Errorf("decoding index: %w", err)
	}

	var (
		result    DecodeResult
		seenIDs   = make(map[string]bool, len(raw))
		seenFiles = make(map[string]bool, len(raw))
	)
	for i, msg := range raw {
		var obj map[string]any
		d := json.NewDecoder(strings.NewReader(string(msg)))
		d.UseNumber()
		if err := d.Decode(&obj); err != nil || obj == nil {
			result.Errors = append(result.Errors, fmt.Errorf("record %d: not an object", i))
			continue
		}

		e := entryFromFields(scalarFields(obj), opts)
		if e.ID == "" {
			result.Errors = append(result.Errors, fmt.Errorf("record %d: no id or fileName", i))
			continue
		}
		if seenIDs[e.ID] {
			result.Errors = append(result.Errors, fmt.Errorf("record %d: duplicate id %q", i, e.ID))
			continue
		}
		if e.FileName != "" && seenFiles[e.FileName] {
			result.Errors = append(result.Errors, fmt.Errorf("record %d: duplicate fileName %q", i, e.FileName))
			continue
		}
		seenIDs[e.ID] = true
		if e.FileName != "" {
			seenFiles[e.FileName] = true
		}
		result.Entries = append(result.Entries, e)
	}
	return result, nil
}

func entryFromFields(fields map[string]string, opts DecodeOptions) Entry {
	category := strings.ToLower(opts.CategoryField)
	if category == "" {
		category = "category"
	}

	e := Entry{
		ID:       fields["id"],
		Title:    first(fields, titleKeys),
		Summary:  first(fields, summaryKeys),
		FileName: fields["filename"],
		FileType: strings.ToLower(fields["filetype"]),
		Category: fields[category],
		Date:     first(fields, dateKeys),
		Fields:   fields,
	}
	if e.ID == "" {
		e.ID = e.FileName
	}
	if e.FileType == "" {
		e.FileType = strings.ToLower(opts.DefaultType)
	}
	if e.FileType == "" {
		e.FileType = "html"
	}
	e.Published = ParseDate(e.Date)
	return e
}

func first(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v := fields[k]; v != "" {
			return v
		}
	}
	return ""
}

// scalarFields keeps strings, numbers and booleans; nested values are dropped.
func scalarFields(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		key := strings.ToLower(k)
		switch val := v.(type) {
		case string:
			out[key] = val
		case json.Number:
			out[key] = val.String()
		case bool:
			out[key] = strconv.FormatBool(val)
		}
	}
	return out
}
