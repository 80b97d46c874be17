package transform

import "testing"

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"  a  b   c ", 3},
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"line one\nline two\n", 4},
		{"hyphen-ated words, count.", 3},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
