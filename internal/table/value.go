package table

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared type of a column.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindDate
	KindList
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindDuration:
		return "duration"
	default:
		return "null"
	}
}

// Numeric reports whether values of the kind can be summed and compared as integers.
func (k Kind) Numeric() bool { return k == KindInt || k == KindDuration }

// Unit tags a duration magnitude.
type Unit int

const (
	UnitNone Unit = iota
	UnitMinutes
	UnitSeasons
)

func (u Unit) String() string {
	switch u {
	case UnitMinutes:
		return "min"
	case UnitSeasons:
		return "seasons"
	default:
		return ""
	}
}

// Value is a single immutable cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	t    time.Time
	list []string
	unit Unit
}

// Null returns the null value.
func Null() Value { return Value{} }

func Text(s string) Value { return Value{kind: KindText, s: s} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Date truncates t to a calendar day in UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// List copies elems. An empty list is null.
func List(elems []string) Value {
	if len(elems) == 0 {
		return Null()
	}
	return Value{kind: KindList, list: slices.Clone(elems)}
}

func Duration(n int64, u Unit) Value { return Value{kind: KindDuration, i: n, unit: u} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the text payload; empty for non-text values.
func (v Value) Str() string { return v.s }

// Int returns the integer payload of Int and Duration values.
func (v Value) Int() int64 { return v.i }

func (v Value) Time() time.Time { return v.t }
func (v Value) Unit() Unit      { return v.unit }

// List returns a copy of the elements of a list value.
func (v Value) List() []string { return slices.Clone(v.list) }

// Len is the number of list elements, 1 for any other non-null value and 0 for null.
func (v Value) Len() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindList:
		return len(v.list)
	default:
		return 1
	}
}

// Has reports list membership, or equality for a text value.
func (v Value) Has(elem string) bool {
	switch v.kind {
	case KindList:
		return slices.Contains(v.list, elem)
	case KindText:
		return v.s == elem
	default:
		return false
	}
}

// Equal is structural equality. Two nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindDate:
		return v.t.Equal(o.t)
	case KindList:
		return slices.Equal(v.list, o.list)
	case KindDuration:
		return v.i == o.i && v.unit == o.unit
	}
	return false
}

// Compare orders values of the same kind; null sorts before everything.
// Values of different non-null kinds order by kind.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindText:
		return strings.Compare(a.s, b.s)
	case KindInt:
		return cmp.Compare(a.i, b.i)
	case KindDate:
		return a.t.Compare(b.t)
	case KindList:
		return slices.Compare(a.list, b.list)
	case KindDuration:
		if c := cmp.Compare(a.unit, b.unit); c != 0 {
			return c
		}
		return cmp.Compare(a.i, b.i)
	}
	return 0
}

// String renders the value for display. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindList:
		return strings.Join(v.list, ", ")
	case KindDuration:
		if v.unit == UnitSeasons {
			if v.i == 1 {
				return "1 Season"
			}
			return fmt.Sprintf("%d Seasons", v.i)
		}
		return fmt.Sprintf("%d min", v.i)
	}
	return ""
}

// Native converts the value to a plain Go value for serialization.
func (v Value) Native() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindInt:
		return v.i
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindList:
		return v.List()
	case KindDuration:
		return v.String()
	}
	return nil
}

// key encodes the value for use in hash keys.
func (v Value) key() string {
	switch v.kind {
	case KindNull:
		return "\x00n"
	case KindList:
		return "l:" + strings.Join(v.list, "\x00,\x00")
	case KindDuration:
		return fmt.Sprintf("d:%d:%d", v.unit, v.i)
	default:
		return fmt.Sprintf("%d:%s", v.kind, v.String())
	}
}

// KeyOf builds a collision-free hash key for a tuple of values.
func KeyOf(vals []Value) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteString("\x00||\x00")
		}
		b.WriteString(v.key())
	}
	return b.String()
}
