package utils_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/titlescope/internal/utils"
)

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	s := strings.Repeat("x", 76) + "—Amélie"
	got := utils.Truncate(s, 80)
	if !utf8.ValidString(got) {
		t.Fatalf("Truncate produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("x", 76) + "—..."; got != want {
		t.Fatalf("Truncate = %q, want %q", got, want)
	}
	if got := utils.Truncate("Amélie", 6); got != "Amélie" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := utils.Truncate("Amélie", 0); got != "Amélie" {
		t.Fatalf("max 0 should not cut: %q", got)
	}
	if got := utils.Truncate("Amélie", 2); got != ".." {
		t.Fatalf("tiny max = %q", got)
	}
}

func TestMarkdownCell(t *testing.T) {
	if got := utils.MarkdownCell("Line one\nline | two", 0); got != "Line one line / two" {
		t.Fatalf("MarkdownCell = %q", got)
	}
	if got := utils.MarkdownCell("Pé|pé", 4); got != "P..." {
		t.Fatalf("MarkdownCell cut = %q", got)
	}
}
