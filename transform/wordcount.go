package transform

import "strings"

// WordCount returns the number of maximal runs of non-whitespace characters
// in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
