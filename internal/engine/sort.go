package engine

import (
	"sort"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Direction is a sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey orders rows by one column. An empty Dir means ascending.
type SortKey struct {
	Field string    `yaml:"field" json:"field"`
	Dir   Direction `yaml:"dir,omitempty" json:"dir,omitempty"`
}

func Asc(field string) SortKey  { return SortKey{Field: field, Dir: Ascending} }
func Desc(field string) SortKey { return SortKey{Field: field, Dir: Descending} }

func checkDir(d Direction) error {
	switch d {
	case "", Ascending, Descending:
		return nil
	}
	return specErr("", "", "unknown sort direction %q", d)
}

// SortBy is a stable multi-key sort. Nulls come first ascending and last
// descending; rows that tie on every key keep their input order.
func SortBy(t *table.Table, keys ...SortKey) (*table.Table, error) {
	st, err := prepareSort(t.Schema(), keys)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareSort(in *table.Schema, keys []SortKey) (stage, error) {
	if len(keys) == 0 {
		return stage{}, specErr("sort", "", "no sort keys")
	}
	idx := make([]int, len(keys))
	sign := make([]int, len(keys))
	for i, k := range keys {
		j, _, ok := in.Lookup(k.Field)
		if !ok {
			return stage{}, specErr("sort", k.Field, "no such column")
		}
		if err := checkDir(k.Dir); err != nil {
			return stage{}, inStep(err, "sort")
		}
		idx[i] = j
		sign[i] = 1
		if k.Dir == Descending {
			sign[i] = -1
		}
	}
	return stage{schema: in, run: func(t *table.Table) (*table.Table, error) {
		recs := t.Records()
		sort.SliceStable(recs, func(a, b int) bool {
			for i, j := range idx {
				if c := table.Compare(recs[a].Index(j), recs[b].Index(j)); c != 0 {
					return sign[i]*c < 0
				}
			}
			return false
		})
		return table.FromRecords(t.Schema(), recs), nil
	}}, nil
}

// Limit keeps the first n rows. A table shorter than n is returned whole.
func Limit(t *table.Table, n int) (*table.Table, error) {
	st, err := prepareLimit(t.Schema(), n)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareLimit(in *table.Schema, n int) (stage, error) {
	if n < 0 {
		return stage{}, specErr("limit", "", "negative limit %d", n)
	}
	return stage{schema: in, run: func(t *table.Table) (*table.Table, error) {
		recs := t.Records()
		if len(recs) > n {
			recs = recs[:n]
		}
		return table.FromRecords(t.Schema(), recs), nil
	}}, nil
}

// TopPerGroup keeps, within each group of groupFields, every row whose
// rankField equals the group's best value (maximum for Descending, minimum
// for Ascending). Ties are all kept and input order is preserved. With no
// group fields the whole table is one group. Null ranks never win.
func TopPerGroup(t *table.Table, groupFields []string, rankField string, dir Direction) (*table.Table, error) {
	st, err := prepareTop(t.Schema(), groupFields, rankField, dir)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareTop(in *table.Schema, groupFields []string, rankField string, dir Direction) (stage, error) {
	gidx, err := keyIndexes(in, groupFields)
	if err != nil {
		return stage{}, inStep(err, "top")
	}
	for _, i := range gidx {
		if c := in.Column(i); c.Kind == table.KindList {
			return stage{}, specErr("top", c.Name, "cannot partition by a multi-valued column; aggregate it first")
		}
	}
	ridx, _, ok := in.Lookup(rankField)
	if !ok {
		return stage{}, specErr("top", rankField, "no such column")
	}
	if err := checkDir(dir); err != nil {
		return stage{}, inStep(err, "top")
	}
	sign := 1
	if dir == Ascending {
		sign = -1
	}
	return stage{schema: in, run: func(t *table.Table) (*table.Table, error) {
		keyOf := func(r table.Record) string {
			vals := make([]table.Value, len(gidx))
			for i, j := range gidx {
				vals[i] = r.Index(j)
			}
			return table.KeyOf(vals)
		}
		best := make(map[string]table.Value)
		for r := range t.Rows() {
			v := r.Index(ridx)
			if v.IsNull() {
				continue
			}
			k := keyOf(r)
			if b, ok := best[k]; !ok || sign*table.Compare(v, b) > 0 {
				best[k] = v
			}
		}
		var keep []table.Record
		for r := range t.Rows() {
			v := r.Index(ridx)
			if v.IsNull() {
				continue
			}
			if b := best[keyOf(r)]; table.Compare(v, b) == 0 {
				keep = append(keep, r)
			}
		}
		return table.FromRecords(t.Schema(), keep), nil
	}}, nil
}

// Select projects t onto keys, renaming columns where As is set.
func Select(t *table.Table, keys ...Key) (*table.Table, error) {
	st, err := prepareSelect(t.Schema(), keys)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareSelect(in *table.Schema, keys []Key) (stage, error) {
	if len(keys) == 0 {
		return stage{}, specErr("select", "", "no columns selected")
	}
	idx := make([]int, len(keys))
	cols := make([]table.Column, len(keys))
	for i, k := range keys {
		j, c, ok := in.Lookup(k.Field)
		if !ok {
			return stage{}, specErr("select", k.Field, "no such column")
		}
		idx[i] = j
		c.Name = k.Name()
		cols[i] = c
	}
	out, err := table.NewSchema(cols...)
	if err != nil {
		return stage{}, specErr("select", "", "%v", err)
	}
	return stage{schema: out, run: func(t *table.Table) (*table.Table, error) {
		rows := make([][]table.Value, 0, t.Len())
		for r := range t.Rows() {
			row := make([]table.Value, len(idx))
			for i, j := range idx {
				row[i] = r.Index(j)
			}
			rows = append(rows, row)
		}
		return table.New(out, rows)
	}}, nil
}
