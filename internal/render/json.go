package render

import (
	"io"

	"github.com/KaramelBytes/titlescope/internal/utils"
)

type jsonFormatter struct{}

type jsonResult struct {
	Query       string           `json:"query"`
	Description string           `json:"description,omitempty"`
	Columns     []string         `json:"columns"`
	Rows        []map[string]any `json:"rows"`
	Notes       []string         `json:"notes,omitempty"`
}

// Write emits a single JSON object for one result, or an array for several.
// Cells keep their native types: integers as numbers, lists as arrays.
func (jsonFormatter) Write(w io.Writer, results []Result) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		names := r.Table.Schema().Names()
		rows := make([]map[string]any, 0, r.Table.Len())
		for rec := range r.Table.Rows() {
			m := make(map[string]any, len(names))
			for j, n := range names {
				m[n] = rec.Index(j).Native()
			}
			rows = append(rows, m)
		}
		out[i] = jsonResult{Query: r.Name, Description: r.Description, Columns: names, Rows: rows, Notes: r.Notes}
	}
	var v any = out
	if len(out) == 1 {
		v = out[0]
	}
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
