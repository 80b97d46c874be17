package transform

import (
	"errors"
	"testing"
)

type stubHighlighter struct {
	markup string
	err    error
	hint   string
}

func (s *stubHighlighter) Markup(content, hint string) (string, error) {
	s.hint = hint
	return s.markup, s.err
}

func TestHighlightMarkup(t *testing.T) {
	h := &stubHighlighter{markup: "<pre>x</pre>"}
	got, err := HighlightMarkup(h, "x", "main.go")
	if err != nil {
		t.Fatalf("HighlightMarkup: %v", err)
	}
	if got != "<pre>x</pre>" {
		t.Errorf("markup = %q", got)
	}
	if h.hint != "main.go" {
		t.Errorf("hint = %q, want %q", h.hint, "main.go")
	}
}

func TestHighlightMarkupFailure(t *testing.T) {
	h := &stubHighlighter{err: errors.New("lexer exploded")}
	if _, err := HighlightMarkup(h, "x", "a.py"); !errors.Is(err, ErrNoHighlighting) {
		t.Errorf("err = %v, want ErrNoHighlighting", err)
	}
	if _, err := HighlightMarkup(nil, "x", "a.py"); !errors.Is(err, ErrNoHighlighting) {
		t.Errorf("nil highlighter err = %v, want ErrNoHighlighting", err)
	}
}
