package transform

import (
	"errors"
	"fmt"
)

// ErrNoHighlighting reports that no highlight markup could be produced. The
// source text is never affected.
var ErrNoHighlighting = errors.New("no highlighting available")

// Highlighter renders text as self-contained markup, choosing a grammar from
// a filename hint.
type Highlighter interface {
	Markup(content, filenameHint string) (string, error)
}

// HighlightMarkup renders content through h for display on a read-only
// preview surface. The caller's buffer is not modified; the markup is a
// separate artifact.
func HighlightMarkup(h Highlighter, content, filenameHint string) (string, error) {
	if h == nil {
		return "", ErrNoHighlighting
	}
	markup, err := h.Markup(content, filenameHint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHighlighting, err)
	}
	return markup, nil
}
