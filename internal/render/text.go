package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

type textFormatter struct{}

func (textFormatter) Write(w io.Writer, results []Result) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if len(results) > 1 || r.Description != "" {
			title := r.Name
			if r.Description != "" {
				title = fmt.Sprintf("%s: %s", r.Name, r.Description)
			}
			if _, err := fmt.Fprintf(w, "== %s ==\n", title); err != nil {
				return err
			}
		}
		header, rows := cells(r.Table)
		tw := tablewriter.NewWriter(w)
		tw.SetHeader(header)
		tw.SetAutoFormatHeaders(false)
		tw.SetAutoWrapText(false)
		tw.AppendBulk(rows)
		tw.Render()
		if _, err := fmt.Fprintf(w, "(%d rows)\n", len(rows)); err != nil {
			return err
		}
		for _, n := range r.Notes {
			if _, err := fmt.Fprintf(w, "⚠ %s\n", n); err != nil {
				return err
			}
		}
	}
	return nil
}
