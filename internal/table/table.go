package table

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Column describes one named, typed column.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

// Schema is an ordered set of uniquely named columns.
type Schema struct {
	cols  []Column
	index map[string]int
}

// NewSchema validates column names and builds the lookup index.
func NewSchema(cols ...Column) (*Schema, error) {
	s := &Schema{cols: slices.Clone(cols), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("column %d: empty name", i)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		s.index[c.Name] = i
	}
	return s, nil
}

// MustSchema is NewSchema for static schemas.
func MustSchema(cols ...Column) *Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Len() int            { return len(s.cols) }
func (s *Schema) Columns() []Column   { return slices.Clone(s.cols) }
func (s *Schema) Column(i int) Column { return s.cols[i] }

// Lookup returns the position and definition of a column.
func (s *Schema) Lookup(name string) (int, Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return -1, Column{}, false
	}
	return i, s.cols[i], true
}

// Names lists column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Record is one row bound to its schema. Records are values; the underlying
// cells are never mutated after construction.
type Record struct {
	schema  *Schema
	values  []Value
	ordinal int
}

// Get returns the named cell, or null when the column does not exist.
func (r Record) Get(name string) Value {
	i, ok := r.schema.index[name]
	if !ok {
		return Null()
	}
	return r.values[i]
}

func (r Record) Index(i int) Value { return r.values[i] }
func (r Record) Schema() *Schema   { return r.schema }

// Ordinal is the row's position in the table it was read from.
func (r Record) Ordinal() int { return r.ordinal }

// Values returns a copy of the cells.
func (r Record) Values() []Value { return slices.Clone(r.values) }

// Table is an immutable ordered collection of rows sharing one schema.
type Table struct {
	id     string
	schema *Schema
	rows   [][]Value
}

// New builds a table, copying every row. Each row must match the schema width.
func New(schema *Schema, rows [][]Value) (*Table, error) {
	t := &Table{schema: schema, rows: make([][]Value, len(rows))}
	for i, r := range rows {
		if len(r) != schema.Len() {
			return nil, fmt.Errorf("row %d: %d values for %d columns", i, len(r), schema.Len())
		}
		t.rows[i] = slices.Clone(r)
	}
	return t, nil
}

// FromRecords builds a table from records that already share schema.
func FromRecords(schema *Schema, recs []Record) *Table {
	t := &Table{schema: schema, rows: make([][]Value, len(recs))}
	for i, r := range recs {
		t.rows[i] = slices.Clone(r.values)
	}
	return t
}

// WithID returns a shallow copy of t carrying id. Rows are shared because
// neither copy can mutate them.
func (t *Table) WithID(id string) *Table {
	return &Table{id: id, schema: t.schema, rows: t.rows}
}

func (t *Table) ID() string      { return t.id }
func (t *Table) Schema() *Schema { return t.schema }
func (t *Table) Len() int        { return len(t.rows) }

// Row returns the i-th record.
func (t *Table) Row(i int) Record {
	return Record{schema: t.schema, values: t.rows[i], ordinal: i}
}

// Rows yields every record in order. The sequence may be iterated any number of times.
func (t *Table) Rows() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := range t.rows {
			if !yield(t.Row(i)) {
				return
			}
		}
	}
}

// Records materializes all rows.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Equal reports identical schemas (by name and kind) and identical rows.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() || t.schema.Len() != o.schema.Len() {
		return false
	}
	for i, c := range t.schema.cols {
		oc := o.schema.cols[i]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !t.rows[i][j].Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// Strings renders every cell for display, row-major.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = v.String()
		}
		out[i] = row
	}
	return out
}
