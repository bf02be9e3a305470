package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/titlescope/internal/utils"
)

type markdownFormatter struct{}

func (markdownFormatter) Write(w io.Writer, results []Result) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[QUERY]\n")
		b.WriteString(fmt.Sprintf("Name: %s\n", r.Name))
		if r.Description != "" {
			b.WriteString(fmt.Sprintf("Description: %s\n", r.Description))
		}
		b.WriteString(fmt.Sprintf("Rows: %d\n\n", r.Table.Len()))

		header, rows := cells(r.Table)
		b.WriteString("| ")
		for j, h := range header {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n| ")
		for j := range header {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range rows {
			b.WriteString("| ")
			for j, v := range row {
				if j > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(utils.MarkdownCell(v, 80))
			}
			b.WriteString(" |\n")
		}
		if len(r.Notes) > 0 {
			b.WriteString("\n[NOTES]\n")
			for _, n := range r.Notes {
				b.WriteString("- ")
				b.WriteString(n)
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
