package engine

import (
	"github.com/KaramelBytes/titlescope/internal/table"
)

// AggFunc names an aggregate function.
type AggFunc string

const (
	AggCount      AggFunc = "count"
	AggCountWhere AggFunc = "count_where"
	AggSum        AggFunc = "sum"
	AggMax        AggFunc = "max"
	AggMin        AggFunc = "min"
)

// Aggregation computes one scalar per group, stored in column As.
type Aggregation struct {
	Func  AggFunc    `yaml:"func" json:"func"`
	Field string     `yaml:"field,omitempty" json:"field,omitempty"`
	Where *Predicate `yaml:"where,omitempty" json:"where,omitempty"`
	As    string     `yaml:"as" json:"as"`
}

func Count(as string) Aggregation { return Aggregation{Func: AggCount, As: as} }

func CountWhere(p Predicate, as string) Aggregation {
	return Aggregation{Func: AggCountWhere, Where: &p, As: as}
}

func Sum(field, as string) Aggregation { return Aggregation{Func: AggSum, Field: field, As: as} }
func Max(field, as string) Aggregation { return Aggregation{Func: AggMax, Field: field, As: as} }
func Min(field, as string) Aggregation { return Aggregation{Func: AggMin, Field: field, As: as} }

type boundAgg struct {
	col  table.Column
	eval func(members []table.Record) table.Value
}

func (a Aggregation) bind(s *table.Schema) (boundAgg, error) {
	if a.As == "" {
		return boundAgg{}, specErr("", a.Field, "%s needs an output name", a.Func)
	}
	switch a.Func {
	case AggCount:
		return boundAgg{
			col:  table.Column{Name: a.As, Kind: table.KindInt},
			eval: func(m []table.Record) table.Value { return table.Int(int64(len(m))) },
		}, nil
	case AggCountWhere:
		if a.Where == nil {
			return boundAgg{}, specErr("", "", "count_where %q needs a where predicate", a.As)
		}
		match, err := a.Where.Bind(s)
		if err != nil {
			return boundAgg{}, err
		}
		return boundAgg{
			col: table.Column{Name: a.As, Kind: table.KindInt},
			eval: func(m []table.Record) table.Value {
				var n int64
				for _, r := range m {
					if match(r) {
						n++
					}
				}
				return table.Int(n)
			},
		}, nil
	}

	idx, col, ok := s.Lookup(a.Field)
	if !ok {
		return boundAgg{}, specErr("", a.Field, "no such column")
	}
	switch a.Func {
	case AggSum:
		if !col.Kind.Numeric() {
			return boundAgg{}, specErr("", a.Field, "sum needs an int or duration column, got %s", col.Kind)
		}
		return boundAgg{
			col: table.Column{Name: a.As, Kind: table.KindInt, Nullable: true},
			eval: func(m []table.Record) table.Value {
				var total int64
				seen := false
				for _, r := range m {
					if v := r.Index(idx); !v.IsNull() {
						total += v.Int()
						seen = true
					}
				}
				if !seen {
					return table.Null()
				}
				return table.Int(total)
			},
		}, nil
	case AggMax, AggMin:
		if col.Kind == table.KindList {
			return boundAgg{}, specErr("", a.Field, "%s is undefined on a multi-valued column", a.Func)
		}
		sign := 1
		if a.Func == AggMin {
			sign = -1
		}
		return boundAgg{
			col: table.Column{Name: a.As, Kind: col.Kind, Nullable: true},
			eval: func(m []table.Record) table.Value {
				best := table.Null()
				for _, r := range m {
					v := r.Index(idx)
					if v.IsNull() {
						continue
					}
					if best.IsNull() || sign*table.Compare(v, best) > 0 {
						best = v
					}
				}
				return best
			},
		}, nil
	}
	return boundAgg{}, specErr("", a.Field, "unknown aggregate %q", a.Func)
}

// Aggregate groups t by keys and emits one row per group holding the key
// values followed by each aggregate. Without keys the whole table is a
// single group, so an empty input still yields one row.
func Aggregate(t *table.Table, keys []Key, aggs ...Aggregation) (*table.Table, error) {
	st, err := prepareAggregate(t.Schema(), keys, aggs)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareAggregate(in *table.Schema, keys []Key, aggs []Aggregation) (stage, error) {
	fields := make([]string, len(keys))
	cols := make([]table.Column, 0, len(keys)+len(aggs))
	for i, k := range keys {
		fields[i] = k.Field
		_, c, ok := in.Lookup(k.Field)
		if !ok {
			return stage{}, specErr("group", k.Field, "no such column")
		}
		out := table.Column{Name: k.Name(), Kind: c.Kind, Nullable: c.Nullable}
		if c.Kind == table.KindList {
			out = table.Column{Name: k.Name(), Kind: table.KindText}
		}
		cols = append(cols, out)
	}
	idx, err := keyIndexes(in, fields)
	if err != nil {
		return stage{}, inStep(err, "group")
	}
	bound := make([]boundAgg, len(aggs))
	for i, a := range aggs {
		b, err := a.bind(in)
		if err != nil {
			return stage{}, inStep(err, "group")
		}
		bound[i] = b
		cols = append(cols, b.col)
	}
	out, err := table.NewSchema(cols...)
	if err != nil {
		return stage{}, specErr("group", "", "%v", err)
	}
	return stage{schema: out, run: func(t *table.Table) (*table.Table, error) {
		var groups []Group
		if len(idx) == 0 {
			groups = []Group{{Members: t.Records()}}
		} else {
			groups = partition(t, idx)
		}
		rows := make([][]table.Value, len(groups))
		for i, g := range groups {
			row := make([]table.Value, 0, out.Len())
			row = append(row, g.Key...)
			for _, b := range bound {
				row = append(row, b.eval(g.Members))
			}
			rows[i] = row
		}
		return table.New(out, rows)
	}}, nil
}
