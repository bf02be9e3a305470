package engine

import (
	"strings"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Project returns a copy of t with column set to rule(row) for every row.
// An existing column of that name is overwritten in place, otherwise the
// column is appended. The source table is not modified.
func Project(t *table.Table, column string, kind table.Kind, rule func(table.Record) table.Value) (*table.Table, error) {
	st, err := prepareProject(t.Schema(), column, kind, rule)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareProject(in *table.Schema, column string, kind table.Kind, rule func(table.Record) table.Value) (stage, error) {
	if strings.TrimSpace(column) == "" {
		return stage{}, specErr("project", "", "empty column name")
	}
	if rule == nil {
		return stage{}, specErr("project", column, "no rule")
	}
	cols := in.Columns()
	pos, _, exists := in.Lookup(column)
	def := table.Column{Name: column, Kind: kind, Nullable: true}
	if exists {
		cols[pos] = def
	} else {
		pos = len(cols)
		cols = append(cols, def)
	}
	out, err := table.NewSchema(cols...)
	if err != nil {
		return stage{}, specErr("project", column, "%v", err)
	}
	return stage{schema: out, run: func(t *table.Table) (*table.Table, error) {
		rows := make([][]table.Value, 0, t.Len())
		for r := range t.Rows() {
			row := r.Values()
			v := rule(r)
			if exists {
				row[pos] = v
			} else {
				row = append(row, v)
			}
			rows = append(rows, row)
		}
		return table.New(out, rows)
	}}, nil
}
