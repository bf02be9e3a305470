package render

import (
	"encoding/csv"
	"fmt"
	"io"
)

type csvFormatter struct{}

// Write emits one CSV block per result. Multiple results are separated by
// a "# name" comment line and a blank line.
func (csvFormatter) Write(w io.Writer, results []Result) error {
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "# %s\n", r.Name); err != nil {
				return err
			}
		}
		header, rows := cells(r.Table)
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("write csv rows: %w", err)
		}
	}
	return nil
}
