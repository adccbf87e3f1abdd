package parser

import (
	"regexp"
	"strings"
)

// CTEName is the common table expression every rewritten statement starts with.
const CTEName = "CONTAINER_INFO"

var headerFields = regexp.MustCompile(`-- (5\.\d+) Enable '([^']+)'`)

// ParseHeader extracts the section number and audit option name from an
// anchor comment such as
//
//	-- 5.16 Enable 'ALTER SYSTEM' Audit Option - Oracle 12c+ ...
//
// ok is false when the comment does not follow that grammar.
func ParseHeader(comment string) (section, auditOption string, ok bool) {
	m := headerFields.FindStringSubmatch(comment)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// FindStatementEnd scans text from start and returns the offset just past the
// first ';' seen at parenthesis depth <= 0.
// Parentheses and semicolons inside quoted literals, quoted identifiers and
// comments do not count.
func FindStatementEnd(text string, start int) (int, bool) {
	if start < 0 {
		start = 0
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch ch := text[i]; ch {
		case '-':
			if i+1 < len(text) && text[i+1] == '-' {
				i = skipLineComment(text, i)
			}
		case '/':
			if i+1 < len(text) && text[i+1] == '*' {
				i = skipBlockComment(text, i)
			}
		case '\'', '"':
			i = skipQuoted(text, i, ch)
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth <= 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// StartsWithCTE reports whether the first statement after the line holding
// pos opens with the CONTAINER_INFO common table expression.
func StartsWithCTE(text string, pos int) bool {
	rest := text[LineEnd(text, pos):]
	rest = strings.TrimLeft(rest, " \t\r\n")
	return strings.HasPrefix(rest, "WITH "+CTEName+" AS (")
}

func skipLineComment(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text) - 1
}

func skipBlockComment(text string, i int) int {
	if j := strings.Index(text[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 1
	}
	return len(text) - 1
}

// skipQuoted returns the index of the closing quote. A doubled quote is an
// escaped quote, as in SQL. Unterminated literals swallow the rest of text.
func skipQuoted(text string, i int, quote byte) int {
	for j := i + 1; j < len(text); j++ {
		if text[j] != quote {
			continue
		}
		if j+1 < len(text) && text[j+1] == quote {
			j++
			continue
		}
		return j
	}
	return len(text) - 1
}
