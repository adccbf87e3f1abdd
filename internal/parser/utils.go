package parser

import "strings"

// LineAt returns the 1-based line number of offset in text.
func LineAt(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(text[:offset], "\n") + 1
}

// LineEnd returns the offset just past the newline ending the line that
// contains pos, or len(text) on the last line.
func LineEnd(text string, pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(text) {
		return len(text)
	}
	if j := strings.IndexByte(text[pos:], '\n'); j >= 0 {
		return pos + j + 1
	}
	return len(text)
}
