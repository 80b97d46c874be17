// Package highlight renders document text as self-contained HTML for the
// read-only preview surface. Source files go through chroma; markdown files
// can be rendered through goldmark instead.
package highlight

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/odvcencio/tabpad/editor"
)

// maxCacheEntries bounds the markup cache; the cache is dropped wholesale
// when it fills.
const maxCacheEntries = 256

// Options configures a Service.
type Options struct {
	Style       string // chroma style name, e.g. "monokai"
	LineNumbers bool
	TabWidth    int
	Markdown    bool // render .md/.markdown hints as HTML instead of highlighting them
}

type cacheKey struct {
	fp   editor.Fingerprint
	hint string
}

// Service produces preview markup. It is safe for concurrent use.
type Service struct {
	opts      Options
	style     *chroma.Style
	formatter *chromahtml.Formatter
	markdown  goldmark.Markdown

	mu    sync.Mutex
	cache map[cacheKey]string
}

// New creates a Service. Unknown style names fall back to chroma's default.
func New(opts Options) *Service {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	return &Service{
		opts:  opts,
		style: styles.Get(opts.Style),
		formatter: chromahtml.New(
			chromahtml.Standalone(true),
			chromahtml.WithClasses(false),
			chromahtml.WithLineNumbers(opts.LineNumbers),
			chromahtml.TabWidth(opts.TabWidth),
		),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
		cache: make(map[cacheKey]string),
	}
}

// Markup renders content as a standalone HTML document. The grammar is
// chosen from filenameHint, falling back to content analysis and then to
// plain text.
func (s *Service) Markup(content, filenameHint string) (string, error) {
	key := cacheKey{fp: editor.FingerprintOf(content), hint: filenameHint}
	s.mu.Lock()
	if v, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	var (
		out string
		err error
	)
	if s.opts.Markdown && IsMarkdown(filenameHint) {
		out, err = s.renderMarkdown(content, filenameHint)
	} else {
		out, err = s.renderSource(content, filenameHint)
	}
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if len(s.cache) >= maxCacheEntries {
		s.cache = make(map[cacheKey]string)
	}
	s.cache[key] = out
	s.mu.Unlock()
	return out, nil
}

// Language returns the name of the grammar Markup would use for a filename
// hint, or "" when only content analysis could decide.
func (s *Service) Language(filenameHint string) string {
	if filenameHint == "" {
		return ""
	}
	if l := lexers.Match(filepath.Base(filenameHint)); l != nil {
		return strings.ToLower(l.Config().Name)
	}
	return ""
}

func (s *Service) lexer(content, filenameHint string) chroma.Lexer {
	var l chroma.Lexer
	if filenameHint != "" {
		l = lexers.Match(filepath.Base(filenameHint))
	}
	if l == nil {
		l = lexers.Analyse(content)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

func (s *Service) renderSource(content, filenameHint string) (string, error) {
	l := s.lexer(content, filenameHint)
	it, err := l.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", l.Config().Name, err)
	}
	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, s.style, it); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) renderMarkdown(content, filenameHint string) (string, error) {
	var body bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &body); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(html.EscapeString(filepath.Base(filenameHint)))
	buf.WriteString("</title>\n</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.String(), nil
}

// IsMarkdown reports whether a filename hint names a markdown file.
func IsMarkdown(filenameHint string) bool {
	switch strings.ToLower(filepath.Ext(filenameHint)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}
