package engine

import (
	"slices"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Key selects a grouping or output column, optionally renaming it.
type Key struct {
	Field string `yaml:"field" json:"field"`
	As    string `yaml:"as,omitempty" json:"as,omitempty"`
}

// Name is the output column name.
func (k Key) Name() string {
	if k.As != "" {
		return k.As
	}
	return k.Field
}

// By is shorthand for a Key renamed to as.
func By(field, as string) Key { return Key{Field: field, As: as} }

// Group is one partition produced by GroupBy.
type Group struct {
	Key     []table.Value
	Members []table.Record
}

// GroupBy partitions rows by the structural value of fields. Groups appear
// in order of first occurrence.
//
// Multi-valued fields are flattened first: a row joins one group per
// distinct element, and the cross product is taken when several key fields
// are multi-valued. A row whose list is null joins no group, so total
// membership can fall below the row count when a list column has nulls.
// Null scalar values form their own group.
func GroupBy(t *table.Table, fields ...string) ([]Group, error) {
	idx, err := keyIndexes(t.Schema(), fields)
	if err != nil {
		return nil, inStep(err, "group")
	}
	return partition(t, idx), nil
}

func keyIndexes(s *table.Schema, fields []string) ([]int, error) {
	idx := make([]int, len(fields))
	for i, f := range fields {
		j, _, ok := s.Lookup(f)
		if !ok {
			return nil, specErr("", f, "no such column")
		}
		idx[i] = j
	}
	return idx, nil
}

func partition(t *table.Table, idx []int) []Group {
	var order []string
	groups := make(map[string]*Group)
	for r := range t.Rows() {
		for _, key := range keyTuples(r, idx) {
			k := table.KeyOf(key)
			g, ok := groups[k]
			if !ok {
				g = &Group{Key: key}
				groups[k] = g
				order = append(order, k)
			}
			g.Members = append(g.Members, r)
		}
	}
	out := make([]Group, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

// keyTuples expands a record into every key tuple it belongs to.
func keyTuples(r table.Record, idx []int) [][]table.Value {
	tuples := [][]table.Value{{}}
	for _, i := range idx {
		v := r.Index(i)
		var choices []table.Value
		if v.Kind() == table.KindList {
			var seen []string
			for _, e := range v.List() {
				if slices.Contains(seen, e) {
					continue
				}
				seen = append(seen, e)
				choices = append(choices, table.Text(e))
			}
		} else if r.Schema().Column(i).Kind == table.KindList {
			return nil // null list: no elements to group by
		} else {
			choices = []table.Value{v}
		}
		next := make([][]table.Value, 0, len(tuples)*len(choices))
		for _, t := range tuples {
			for _, c := range choices {
				next = append(next, append(slices.Clone(t), c))
			}
		}
		tuples = next
	}
	return tuples
}
