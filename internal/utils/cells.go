package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate shortens s to at most limit runes, ending in "..." when cut.
// limit <= 0 leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return strings.Repeat(".", limit)
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

// MarkdownCell flattens s for a Markdown table row and truncates it to limit runes.
func MarkdownCell(s string, limit int) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	return Truncate(s, limit)
}
