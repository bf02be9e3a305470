package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// PredicateOp names a predicate primitive.
type PredicateOp string

const (
	OpIsNull    PredicateOp = "is_null"
	OpNotNull   PredicateOp = "not_null"
	OpEquals    PredicateOp = "equals"
	OpContains  PredicateOp = "contains"
	OpSubstring PredicateOp = "substring"
	OpCompare   PredicateOp = "compare"
	OpAnd       PredicateOp = "and"
	OpOr        PredicateOp = "or"
	OpNot       PredicateOp = "not"
)

// CmpOp is a comparison operator for Compare predicates.
type CmpOp string

const (
	Lt CmpOp = "<"
	Gt CmpOp = ">"
	Eq CmpOp = "="
	Ne CmpOp = "!="
	Le CmpOp = "<="
	Ge CmpOp = ">="
)

// Predicate is a declarative boolean condition over a record. It is plain
// data so that pipelines can be written in Go or decoded from YAML.
//
// A predicate that needs a value from a null field evaluates to false;
// there is no third "unknown" state.
type Predicate struct {
	Op    PredicateOp `yaml:"op" json:"op"`
	Field string      `yaml:"field,omitempty" json:"field,omitempty"`
	Cmp   CmpOp       `yaml:"cmp,omitempty" json:"cmp,omitempty"`
	Value any         `yaml:"value,omitempty" json:"value,omitempty"`
	Args  []Predicate `yaml:"args,omitempty" json:"args,omitempty"`
}

func IsNull(field string) Predicate  { return Predicate{Op: OpIsNull, Field: field} }
func NotNull(field string) Predicate { return Predicate{Op: OpNotNull, Field: field} }

func Equals(field string, v any) Predicate { return Predicate{Op: OpEquals, Field: field, Value: v} }

// Contains tests membership of v in a multi-valued field.
func Contains(field, v string) Predicate { return Predicate{Op: OpContains, Field: field, Value: v} }

// SubstringMatch is case-sensitive substring containment.
func SubstringMatch(field, pattern string) Predicate {
	return Predicate{Op: OpSubstring, Field: field, Value: pattern}
}

func Compare(field string, op CmpOp, v any) Predicate {
	return Predicate{Op: OpCompare, Field: field, Cmp: op, Value: v}
}

func And(ps ...Predicate) Predicate { return Predicate{Op: OpAnd, Args: ps} }
func Or(ps ...Predicate) Predicate  { return Predicate{Op: OpOr, Args: ps} }
func Not(p Predicate) Predicate     { return Predicate{Op: OpNot, Args: []Predicate{p}} }

// Matcher is a predicate bound to a schema.
type Matcher func(table.Record) bool

// Bind validates the predicate against s and returns its evaluator.
func (p Predicate) Bind(s *table.Schema) (Matcher, error) {
	switch p.Op {
	case OpAnd, OpOr:
		if len(p.Args) == 0 {
			return nil, specErr("", "", "%s needs at least one operand", p.Op)
		}
		ms := make([]Matcher, len(p.Args))
		for i, a := range p.Args {
			m, err := a.Bind(s)
			if err != nil {
				return nil, err
			}
			ms[i] = m
		}
		if p.Op == OpAnd {
			return func(r table.Record) bool {
				for _, m := range ms {
					if !m(r) {
						return false
					}
				}
				return true
			}, nil
		}
		return func(r table.Record) bool {
			for _, m := range ms {
				if m(r) {
					return true
				}
			}
			return false
		}, nil
	case OpNot:
		if len(p.Args) != 1 {
			return nil, specErr("", "", "not takes exactly one operand")
		}
		m, err := p.Args[0].Bind(s)
		if err != nil {
			return nil, err
		}
		return func(r table.Record) bool { return !m(r) }, nil
	}

	idx, col, ok := s.Lookup(p.Field)
	if !ok {
		return nil, specErr("", p.Field, "no such column")
	}
	switch p.Op {
	case OpIsNull:
		return func(r table.Record) bool { return r.Index(idx).IsNull() }, nil
	case OpNotNull:
		return func(r table.Record) bool { return !r.Index(idx).IsNull() }, nil
	case OpEquals:
		if col.Kind == table.KindList {
			return nil, specErr("", p.Field, "equals on a multi-valued column; use contains")
		}
		want, err := literal(col, p.Value)
		if err != nil {
			return nil, err
		}
		return func(r table.Record) bool {
			v := r.Index(idx)
			if v.IsNull() {
				return false
			}
			if col.Kind == table.KindDuration {
				return v.Int() == want.Int()
			}
			return v.Equal(want)
		}, nil
	case OpContains:
		if col.Kind != table.KindList && col.Kind != table.KindText {
			return nil, specErr("", p.Field, "contains needs a text or list column, got %s", col.Kind)
		}
		elem, ok := p.Value.(string)
		if !ok {
			return nil, specErr("", p.Field, "contains needs a string operand, got %T", p.Value)
		}
		return func(r table.Record) bool { return r.Index(idx).Has(elem) }, nil
	case OpSubstring:
		if col.Kind != table.KindList && col.Kind != table.KindText {
			return nil, specErr("", p.Field, "substring needs a text or list column, got %s", col.Kind)
		}
		pat, ok := p.Value.(string)
		if !ok {
			return nil, specErr("", p.Field, "substring needs a string pattern, got %T", p.Value)
		}
		return func(r table.Record) bool {
			v := r.Index(idx)
			switch v.Kind() {
			case table.KindText:
				return strings.Contains(v.Str(), pat)
			case table.KindList:
				for _, e := range v.List() {
					if strings.Contains(e, pat) {
						return true
					}
				}
			}
			return false
		}, nil
	case OpCompare:
		if col.Kind != table.KindInt && col.Kind != table.KindDuration && col.Kind != table.KindDate {
			return nil, specErr("", p.Field, "compare needs an int, duration or date column, got %s", col.Kind)
		}
		want, err := literal(col, p.Value)
		if err != nil {
			return nil, err
		}
		test, err := cmpFunc(p.Cmp)
		if err != nil {
			return nil, specErr("", p.Field, "%v", err)
		}
		return func(r table.Record) bool {
			v := r.Index(idx)
			if v.IsNull() {
				return false
			}
			var c int
			switch col.Kind {
			case table.KindDate:
				c = v.Time().Compare(want.Time())
			default:
				c = compareInt(v.Int(), want.Int())
			}
			return test(c)
		}, nil
	}
	return nil, specErr("", p.Field, "unknown predicate op %q", p.Op)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFunc(op CmpOp) (func(int) bool, error) {
	switch op {
	case Lt:
		return func(c int) bool { return c < 0 }, nil
	case Gt:
		return func(c int) bool { return c > 0 }, nil
	case Eq, "==":
		return func(c int) bool { return c == 0 }, nil
	case Ne, "<>":
		return func(c int) bool { return c != 0 }, nil
	case Le:
		return func(c int) bool { return c <= 0 }, nil
	case Ge:
		return func(c int) bool { return c >= 0 }, nil
	}
	return nil, fmt.Errorf("unknown comparison operator %q", op)
}

// literal coerces a predicate operand to the kind of col. Duration operands
// are bare magnitudes; the unit is implied by the row.
func literal(col table.Column, v any) (table.Value, error) {
	bad := func() (table.Value, error) {
		return table.Null(), specErr("", col.Name, "operand %v (%T) is not a %s", v, v, col.Kind)
	}
	switch col.Kind {
	case table.KindText:
		s, ok := v.(string)
		if !ok {
			return bad()
		}
		return table.Text(s), nil
	case table.KindInt, table.KindDuration:
		var n int64
		switch x := v.(type) {
		case int:
			n = int64(x)
		case int64:
			n = x
		case float64:
			if x != float64(int64(x)) {
				return bad()
			}
			n = int64(x)
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return bad()
			}
			n = i
		default:
			return bad()
		}
		if col.Kind == table.KindDuration {
			return table.Duration(n, table.UnitNone), nil
		}
		return table.Int(n), nil
	case table.KindDate:
		switch x := v.(type) {
		case time.Time:
			return table.Date(x), nil
		case string:
			if t, ok := table.ParseDate(x); ok {
				return table.Date(t), nil
			}
		}
		return bad()
	}
	return bad()
}

// Filter keeps the rows matching p, in order.
func Filter(t *table.Table, p Predicate) (*table.Table, error) {
	st, err := prepareFilter(t.Schema(), p)
	if err != nil {
		return nil, err
	}
	return st.run(t)
}

func prepareFilter(in *table.Schema, p Predicate) (stage, error) {
	m, err := p.Bind(in)
	if err != nil {
		return stage{}, inStep(err, "filter")
	}
	return stage{schema: in, run: func(t *table.Table) (*table.Table, error) {
		var keep []table.Record
		for r := range t.Rows() {
			if m(r) {
				keep = append(keep, r)
			}
		}
		return table.FromRecords(t.Schema(), keep), nil
	}}, nil
}
