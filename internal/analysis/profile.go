// Package analysis profiles a loaded titles table column by column.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/titlescope/internal/table"
	"github.com/KaramelBytes/titlescope/internal/utils"
)

// Options controls profiling.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the categories listed per column.
	TopValues int
	// Outliers counts numeric values whose robust Z-score exceeds OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 8, Outliers: true, OutlierThreshold: 3.5}
}

// Report is a markdown-friendly profile of a titles table.
type Report struct {
	Name     string
	TableID  string
	Rows     int
	Source   int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
}

// ColumnSummary captures statistics for one column.
type ColumnSummary struct {
	Name    string
	Kind    table.Kind
	NonNull int
	Missing int
	Unique  int
	// Int columns carry one entry; duration columns one per unit, since
	// minutes and seasons are never compared.
	Stats []NumericStats
	Unit  string
	// Date columns
	Earliest, Latest string
	// Text and list columns; list columns count each element
	TopValues    []CategoryCount
	Elements     int
	ExampleTexts []string
}

// NumericStats summarizes the magnitudes sharing one unit.
type NumericStats struct {
	Unit                string
	Count               int
	Min, Max, Mean, Std float64
	OutliersCount       int
	OutlierThreshold    float64
}

type CategoryCount struct {
	Value string
	Count int
}

// Profile summarizes every column of t. source is the number of rows in the
// file before any max_rows cut; pass 0 when unknown.
func Profile(name string, t *table.Table, source int, opt Options) *Report {
	rep := &Report{Name: name, TableID: t.ID(), Rows: t.Len(), Source: source}
	if opt.SampleRows < 0 {
		opt.SampleRows = 5
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 8
	}
	for i := 0; i < t.Schema().Len(); i++ {
		rep.Cols = append(rep.Cols, profileColumn(t, i, opt))
	}
	for r := range t.Rows() {
		if len(rep.Samples) >= opt.SampleRows {
			break
		}
		row := make([]string, 0, t.Schema().Len())
		for _, v := range r.Values() {
			row = append(row, v.String())
		}
		rep.Samples = append(rep.Samples, row)
	}
	if source > t.Len() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to max_rows", t.Len(), source))
	}
	return rep
}

func profileColumn(t *table.Table, idx int, opt Options) ColumnSummary {
	col := t.Schema().Column(idx)
	s := ColumnSummary{Name: col.Name, Kind: col.Kind}
	cats := map[string]int{}
	accs := map[string]*numAcc{}
	var units []string

	for r := range t.Rows() {
		v := r.Index(idx)
		if v.IsNull() {
			s.Missing++
			continue
		}
		s.NonNull++
		switch v.Kind() {
		case table.KindInt, table.KindDuration:
			var u string
			if v.Kind() == table.KindDuration {
				u = v.Unit().String()
			}
			a, ok := accs[u]
			if !ok {
				a = &numAcc{min: math.Inf(1), max: math.Inf(-1)}
				accs[u] = a
				units = append(units, u)
			}
			a.add(float64(v.Int()))
			cats[v.String()]++
		case table.KindDate:
			d := v.String()
			if s.Earliest == "" || d < s.Earliest {
				s.Earliest = d
			}
			if d > s.Latest {
				s.Latest = d
			}
			cats[d]++
		case table.KindList:
			for _, e := range v.List() {
				s.Elements++
				cats[e]++
			}
		case table.KindText:
			cats[v.Str()]++
			if len(s.ExampleTexts) < 3 {
				s.ExampleTexts = append(s.ExampleTexts, v.Str())
			}
		}
	}
	s.Unique = len(cats)
	sort.Strings(units)
	for _, u := range units {
		s.Stats = append(s.Stats, accs[u].stats(u, opt))
	}
	s.Unit = strings.Join(units, "/")
	if col.Kind == table.KindText || col.Kind == table.KindList {
		tops := make([]CategoryCount, 0, len(cats))
		for k, c := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: c})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > opt.TopValues {
			tops = tops[:opt.TopValues]
		}
		s.TopValues = tops
	}
	return s
}

// StatsFor returns the numeric summary for unit ("" for int columns).
func (c ColumnSummary) StatsFor(unit string) (NumericStats, bool) {
	for _, st := range c.Stats {
		if st.Unit == unit {
			return st, true
		}
	}
	return NumericStats{}, false
}

// numAcc accumulates a running mean and variance (Welford).
type numAcc struct {
	vals     []float64
	mean, m2 float64
	min, max float64
}

func (a *numAcc) add(x float64) {
	a.vals = append(a.vals, x)
	delta := x - a.mean
	a.mean += delta / float64(len(a.vals))
	a.m2 += delta * (x - a.mean)
	if x < a.min {
		a.min = x
	}
	if x > a.max {
		a.max = x
	}
}

func (a *numAcc) stats(unit string, opt Options) NumericStats {
	n := len(a.vals)
	st := NumericStats{Unit: unit, Count: n, Min: a.min, Max: a.max, Mean: a.mean}
	if n > 1 {
		st.Std = math.Sqrt(a.m2 / float64(n-1))
	}
	if opt.Outliers && n >= 8 {
		st.OutlierThreshold = opt.OutlierThreshold
		st.OutliersCount = countOutliers(a.vals, opt.OutlierThreshold)
	}
	return st
}

// categorical reports whether a text column repeats values enough to list
// its top categories instead of example texts.
func (c ColumnSummary) categorical() bool {
	if c.Kind == table.KindList {
		return true
	}
	return c.Kind == table.KindText && c.NonNull > 0 && c.Unique*2 <= c.NonNull
}

func countOutliers(vals []float64, thr float64) int {
	if thr <= 0 {
		thr = 3.5
	}
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0
	}
	var cnt int
	for _, v := range vals {
		if math.Abs(0.6745*(v-median)/mad) > thr {
			cnt++
		}
	}
	return cnt
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.TableID != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", r.TableID))
	}
	if r.Source > r.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.Source, r.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		missPct := 0.0
		if total := c.NonNull + c.Missing; total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		switch {
		case c.Kind == table.KindInt:
			for _, st := range c.Stats {
				writeStats(&b, st)
			}
		case c.Kind == table.KindDuration:
			for _, st := range c.Stats {
				b.WriteString(fmt.Sprintf("\n  - %s: n %d", st.Unit, st.Count))
				writeStats(&b, st)
			}
		case c.Kind == table.KindDate:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf("; %s to %s", c.Earliest, c.Latest))
			}
		case c.categorical():
			if c.Kind == table.KindList {
				b.WriteString(fmt.Sprintf("; %d elements", c.Elements))
			}
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", utils.MarkdownCell(kv.Value, 0), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case len(c.ExampleTexts) > 0:
			b.WriteString("; e.g., ")
			for i, ex := range c.ExampleTexts {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(utils.MarkdownCell(ex, 60))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(utils.MarkdownCell(val, 80))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func writeStats(b *strings.Builder, st NumericStats) {
	b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", st.Min, st.Max, st.Mean, st.Std))
	if st.OutlierThreshold > 0 {
		b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", st.OutliersCount, st.OutlierThreshold))
	}
}
