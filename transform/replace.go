// Package transform holds the text transformations applied to a document's
// buffer: search and replace, sentence capitalization, word counting and
// highlight markup for the preview surface.
package transform

import "strings"

// Range represents a byte range [Start, End) within buffer text.
type Range struct {
	Start, End int
}

// Find returns all byte ranges where query appears as a substring of text,
// scanning left to right without overlap. Returns nil if query is empty or
// not found.
func Find(text, query string) []Range {
	if query == "" {
		return nil
	}
	var results []Range
	start := 0
	for {
		idx := strings.Index(text[start:], query)
		if idx < 0 {
			break
		}
		absIdx := start + idx
		results = append(results, Range{Start: absIdx, End: absIdx + len(query)})
		start = absIdx + len(query)
	}
	return results
}

// SearchAndReplace replaces every non-overlapping occurrence of search in
// content with replace and returns the new text with the number of
// replacements. An empty search is a no-op.
func SearchAndReplace(content, search, replace string) (string, int) {
	ranges := Find(content, search)
	if len(ranges) == 0 {
		return content, 0
	}
	var b strings.Builder
	b.Grow(len(content) + len(ranges)*(len(replace)-len(search)))
	prev := 0
	for _, r := range ranges {
		b.WriteString(content[prev:r.Start])
		b.WriteString(replace)
		prev = r.End
	}
	b.WriteString(content[prev:])
	return b.String(), len(ranges)
}
