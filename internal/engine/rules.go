package engine

import (
	"strings"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// RuleKind names a derived-column rule.
type RuleKind string

const (
	RuleSeasonsToYears RuleKind = "seasons_to_years"
	RuleKeywordLabel   RuleKind = "keyword_label"
	RuleYearOf         RuleKind = "year_of"
	RuleDivide         RuleKind = "divide"
	RuleMagnitude      RuleKind = "magnitude"
)

// Rule is a declarative per-row computation used by Project steps.
type Rule struct {
	Kind      RuleKind `yaml:"kind" json:"kind"`
	Field     string   `yaml:"field" json:"field"`
	Divisor   int64    `yaml:"divisor,omitempty" json:"divisor,omitempty"`
	Keywords  []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Label     string   `yaml:"label,omitempty" json:"label,omitempty"`
	Otherwise string   `yaml:"otherwise,omitempty" json:"otherwise,omitempty"`
}

// SeasonsToYears converts a season count to whole years (12 seasons a year,
// truncating). Durations measured in minutes yield null.
func SeasonsToYears(field string) Rule { return Rule{Kind: RuleSeasonsToYears, Field: field} }

// KeywordLabel yields label when the text field contains any keyword
// (case-sensitive), otherwise the fallback. A null field gets the fallback.
func KeywordLabel(field, label, otherwise string, keywords ...string) Rule {
	return Rule{Kind: RuleKeywordLabel, Field: field, Label: label, Otherwise: otherwise, Keywords: keywords}
}

func YearOf(field string) Rule { return Rule{Kind: RuleYearOf, Field: field} }

// Divide is truncating integer division of an int or duration magnitude.
func Divide(field string, by int64) Rule { return Rule{Kind: RuleDivide, Field: field, Divisor: by} }

// Magnitude strips the unit from a duration.
func Magnitude(field string) Rule { return Rule{Kind: RuleMagnitude, Field: field} }

// Compile validates the rule against s and returns the output kind and row function.
func (r Rule) Compile(s *table.Schema) (table.Kind, func(table.Record) table.Value, error) {
	idx, col, ok := s.Lookup(r.Field)
	if !ok {
		return 0, nil, specErr("", r.Field, "no such column")
	}
	need := func(kinds ...table.Kind) error {
		for _, k := range kinds {
			if col.Kind == k {
				return nil
			}
		}
		return specErr("", r.Field, "%s cannot use a %s column", r.Kind, col.Kind)
	}
	switch r.Kind {
	case RuleSeasonsToYears:
		if err := need(table.KindDuration); err != nil {
			return 0, nil, err
		}
		return table.KindInt, func(rec table.Record) table.Value {
			v := rec.Index(idx)
			if v.IsNull() || v.Unit() != table.UnitSeasons {
				return table.Null()
			}
			return table.Int(v.Int() / 12)
		}, nil
	case RuleKeywordLabel:
		if err := need(table.KindText); err != nil {
			return 0, nil, err
		}
		if len(r.Keywords) == 0 || r.Label == "" {
			return 0, nil, specErr("", r.Field, "keyword_label needs keywords and a label")
		}
		kw := append([]string(nil), r.Keywords...)
		return table.KindText, func(rec table.Record) table.Value {
			text := rec.Index(idx).Str()
			for _, k := range kw {
				if strings.Contains(text, k) {
					return table.Text(r.Label)
				}
			}
			return table.Text(r.Otherwise)
		}, nil
	case RuleYearOf:
		if err := need(table.KindDate); err != nil {
			return 0, nil, err
		}
		return table.KindInt, func(rec table.Record) table.Value {
			v := rec.Index(idx)
			if v.IsNull() {
				return table.Null()
			}
			return table.Int(int64(v.Time().Year()))
		}, nil
	case RuleDivide:
		if err := need(table.KindInt, table.KindDuration); err != nil {
			return 0, nil, err
		}
		if r.Divisor == 0 {
			return 0, nil, specErr("", r.Field, "division by zero")
		}
		by := r.Divisor
		return table.KindInt, func(rec table.Record) table.Value {
			v := rec.Index(idx)
			if v.IsNull() {
				return table.Null()
			}
			return table.Int(v.Int() / by)
		}, nil
	case RuleMagnitude:
		if err := need(table.KindDuration); err != nil {
			return 0, nil, err
		}
		return table.KindInt, func(rec table.Record) table.Value {
			v := rec.Index(idx)
			if v.IsNull() {
				return table.Null()
			}
			return table.Int(v.Int())
		}, nil
	}
	return 0, nil, specErr("", r.Field, "unknown rule %q", r.Kind)
}
