// Package render writes query results in the supported output formats.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Result is one named query result ready for output.
type Result struct {
	Name        string
	Description string
	Table       *table.Table
	Notes       []string
}

// Formatter writes results to w. Write is called once per invocation with
// every result to emit, in order.
type Formatter interface {
	Write(w io.Writer, results []Result) error
}

const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted output format names.
var Formats = []string{FormatTable, FormatCSV, FormatJSON, FormatMarkdown}

// New returns the formatter for name. "md" is accepted for markdown.
func New(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatTable, "":
		return textFormatter{}, nil
	case FormatCSV:
		return csvFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatMarkdown, "md":
		return markdownFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

// Valid reports whether name selects a known format.
func Valid(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "md" || slices.Contains(Formats, n)
}

func cells(t *table.Table) (header []string, rows [][]string) {
	return t.Schema().Names(), t.Strings()
}
