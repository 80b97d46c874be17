package highlight

import (
	"strings"
	"testing"
)

func TestMarkupGo(t *testing.T) {
	s := New(Options{Style: "monokai"})
	out, err := s.Markup("package main\n\nfunc main() {}\n", "main.go")
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if !strings.Contains(out, "<html") {
		t.Error("markup should be a standalone HTML document")
	}
	if !strings.Contains(out, "package") || !strings.Contains(out, "main") {
		t.Errorf("markup should contain the source tokens, got %q", out)
	}
	if !strings.Contains(out, "style=") {
		t.Error("markup should carry inline styles")
	}
}

func TestMarkupEscapesSource(t *testing.T) {
	s := New(Options{})
	out, err := s.Markup("<script>alert(1)</script>", "notes.txt")
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("source text must be escaped in the markup")
	}
}

func TestMarkupUnknownHintFallsBack(t *testing.T) {
	s := New(Options{})
	if _, err := s.Markup("just some words", ""); err != nil {
		t.Fatalf("Markup with empty hint: %v", err)
	}
	if _, err := s.Markup("just some words", "file.unknownext"); err != nil {
		t.Fatalf("Markup with unknown extension: %v", err)
	}
}

func TestMarkupMarkdown(t *testing.T) {
	s := New(Options{Markdown: true})
	out, err := s.Markup("# Title\n\nSome *text*.\n", "README.md")
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Errorf("markdown should render a heading, got %q", out)
	}
	if !strings.Contains(out, "<em>text</em>") {
		t.Errorf("markdown should render emphasis, got %q", out)
	}
}

func TestMarkupMarkdownDisabled(t *testing.T) {
	s := New(Options{})
	out, err := s.Markup("# Title\n", "README.md")
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if strings.Contains(out, "<h1>") {
		t.Error("markdown rendering should be off unless enabled")
	}
}

func TestMarkupCached(t *testing.T) {
	s := New(Options{})
	a, _ := s.Markup("x = 1\n", "a.py")
	b, _ := s.Markup("x = 1\n", "a.py")
	if a != b {
		t.Error("identical input should give identical markup")
	}
	if len(s.cache) != 1 {
		t.Errorf("cache size = %d, want 1", len(s.cache))
	}
}

func TestLanguage(t *testing.T) {
	s := New(Options{})
	if got := s.Language("/src/main.go"); got != "go" {
		t.Errorf("Language(main.go) = %q, want %q", got, "go")
	}
	if got := s.Language(""); got != "" {
		t.Errorf("Language(\"\") = %q, want empty", got)
	}
}

func TestIsMarkdown(t *testing.T) {
	for hint, want := range map[string]bool{
		"README.md": true, "notes.MARKDOWN": true, "main.go": false, "": false,
	} {
		if got := IsMarkdown(hint); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", hint, got, want)
		}
	}
}
