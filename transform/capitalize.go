package transform

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sentenceBreak matches the run of spaces that follows a sentence
// terminator. The terminator itself stays with the preceding sentence.
var sentenceBreak = regexp2.MustCompile(`(?<=[.!?]) +`, regexp2.None)

// AutoCapitalize upper-cases the first letter of every sentence in content
// and lower-cases the rest of it. A sentence ends at '.', '!' or '?'
// followed by one or more spaces; that run of spaces is collapsed to a
// single space. A terminator that is not followed by a space does not end a
// sentence. Bytes that are not valid UTF-8 are kept as they are.
func AutoCapitalize(content string) string {
	sentences := splitSentences(content)
	for i, s := range sentences {
		sentences[i] = capitalize(s)
	}
	return strings.Join(sentences, " ")
}

func splitSentences(content string) []string {
	// regexp2 reports match positions in runes; offsets maps them back to
	// bytes so the pieces are cut from content itself.
	runes := []rune(content)
	offsets := make([]int, 0, len(runes)+1)
	for i := 0; i < len(content); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(content[i:])
		i += size
	}
	offsets = append(offsets, len(content))

	var out []string
	prev := 0
	m, err := sentenceBreak.FindRunesMatch(runes)
	for err == nil && m != nil {
		out = append(out, content[prev:offsets[m.Index]])
		prev = offsets[m.Index+m.Length]
		m, err = sentenceBreak.FindNextMatch(m)
	}
	return append(out, content[prev:])
}

// capitalize title-cases the first grapheme cluster of s and lower-cases
// the remainder.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if utf8.ValidString(first) {
		// Casers carry state, so each call gets its own.
		first = cases.Title(language.Und).String(first)
	}
	return first + lower(rest)
}

// lower lower-cases the valid UTF-8 runs of s and copies invalid bytes
// through unchanged.
func lower(s string) string {
	if utf8.ValidString(s) {
		return cases.Lower(language.Und).String(s)
	}
	var b strings.Builder
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(cases.Lower(language.Und).String(s[start:i]))
			b.WriteByte(s[i])
			start = i + 1
		}
		i += size
	}
	b.WriteString(cases.Lower(language.Und).String(s[start:]))
	return b.String()
}
