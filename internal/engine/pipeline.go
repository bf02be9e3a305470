package engine

import (
	"fmt"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// stage is one compiled operation: its output schema and how to produce it.
type stage struct {
	schema *table.Schema
	run    func(*table.Table) (*table.Table, error)
}

// Projection derives Column from a Rule.
type Projection struct {
	Column string `yaml:"column" json:"column"`
	Rule   Rule   `yaml:"rule" json:"rule"`
}

// Grouping is a group-by followed by aggregates.
type Grouping struct {
	Keys       []Key         `yaml:"keys,omitempty" json:"keys,omitempty"`
	Aggregates []Aggregation `yaml:"aggregates" json:"aggregates"`
}

// TopSpec keeps the best-ranked rows of each partition.
type TopSpec struct {
	GroupBy []string  `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	Rank    string    `yaml:"rank" json:"rank"`
	Dir     Direction `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// Step is one pipeline operation. Exactly one field must be set.
type Step struct {
	Filter  *Predicate  `yaml:"filter,omitempty" json:"filter,omitempty"`
	Project *Projection `yaml:"project,omitempty" json:"project,omitempty"`
	Group   *Grouping   `yaml:"group,omitempty" json:"group,omitempty"`
	Top     *TopSpec    `yaml:"top,omitempty" json:"top,omitempty"`
	Sort    []SortKey   `yaml:"sort,omitempty" json:"sort,omitempty"`
	Limit   *int        `yaml:"limit,omitempty" json:"limit,omitempty"`
	Select  []Key       `yaml:"select,omitempty" json:"select,omitempty"`
}

func FilterStep(p Predicate) Step { return Step{Filter: &p} }

func ProjectStep(column string, r Rule) Step {
	return Step{Project: &Projection{Column: column, Rule: r}}
}

func GroupStep(keys []Key, aggs ...Aggregation) Step {
	return Step{Group: &Grouping{Keys: keys, Aggregates: aggs}}
}

// TopStep keeps rows holding the maximum rank per partition.
func TopStep(rank string, groupBy ...string) Step {
	return Step{Top: &TopSpec{GroupBy: groupBy, Rank: rank, Dir: Descending}}
}

func SortStep(keys ...SortKey) Step { return Step{Sort: keys} }
func LimitStep(n int) Step          { return Step{Limit: &n} }
func SelectStep(keys ...Key) Step   { return Step{Select: keys} }

// Op names the operation a step performs, or "" if it sets none or several.
func (s Step) Op() string {
	var ops []string
	if s.Filter != nil {
		ops = append(ops, "filter")
	}
	if s.Project != nil {
		ops = append(ops, "project")
	}
	if s.Group != nil {
		ops = append(ops, "group")
	}
	if s.Top != nil {
		ops = append(ops, "top")
	}
	if s.Sort != nil {
		ops = append(ops, "sort")
	}
	if s.Limit != nil {
		ops = append(ops, "limit")
	}
	if s.Select != nil {
		ops = append(ops, "select")
	}
	if len(ops) != 1 {
		return ""
	}
	return ops[0]
}

func (s Step) prepare(in *table.Schema) (stage, error) {
	switch s.Op() {
	case "filter":
		return prepareFilter(in, *s.Filter)
	case "project":
		kind, fn, err := s.Project.Rule.Compile(in)
		if err != nil {
			return stage{}, err
		}
		return prepareProject(in, s.Project.Column, kind, fn)
	case "group":
		return prepareAggregate(in, s.Group.Keys, s.Group.Aggregates)
	case "top":
		return prepareTop(in, s.Top.GroupBy, s.Top.Rank, s.Top.Dir)
	case "sort":
		return prepareSort(in, s.Sort)
	case "limit":
		return prepareLimit(in, *s.Limit)
	case "select":
		return prepareSelect(in, s.Select)
	}
	return stage{}, specErr("", "", "a step must set exactly one operation")
}

// Pipeline is a named, declarative query: an ordered list of steps.
type Pipeline struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

// Plan is a pipeline validated against an input schema.
type Plan struct {
	name   string
	input  *table.Schema
	output *table.Schema
	stages []stage
}

// Compile checks every step against the schema it will receive. Errors
// match ErrInvalidQuerySpec and name the failing step.
func (p Pipeline) Compile(in *table.Schema) (*Plan, error) {
	if len(p.Steps) == 0 {
		return nil, specErr(p.Name, "", "pipeline has no steps")
	}
	plan := &Plan{name: p.Name, input: in}
	cur := in
	for i, s := range p.Steps {
		st, err := s.prepare(cur)
		if err != nil {
			label := fmt.Sprintf("step %d", i+1)
			if op := s.Op(); op != "" {
				label += " (" + op + ")"
			}
			if p.Name != "" {
				label = p.Name + ": " + label
			}
			return nil, inStep(err, label)
		}
		plan.stages = append(plan.stages, st)
		cur = st.schema
	}
	plan.output = cur
	return plan, nil
}

// Run compiles p against t's schema and executes it.
func (p Pipeline) Run(t *table.Table) (*table.Table, error) {
	plan, err := p.Compile(t.Schema())
	if err != nil {
		return nil, err
	}
	return plan.Run(t)
}

func (pl *Plan) Name() string          { return pl.name }
func (pl *Plan) Output() *table.Schema { return pl.output }

// Run executes the plan. t must carry the schema the plan was compiled for.
func (pl *Plan) Run(t *table.Table) (*table.Table, error) {
	if !sameShape(pl.input, t.Schema()) {
		return nil, specErr(pl.name, "", "table schema differs from the compiled schema")
	}
	cur := t
	for i, st := range pl.stages {
		next, err := st.run(cur)
		if err != nil {
			return nil, fmt.Errorf("%s: step %d: %w", pl.name, i+1, err)
		}
		cur = next
	}
	return cur, nil
}

func sameShape(a, b *table.Schema) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.Column(i).Name != b.Column(i).Name || a.Column(i).Kind != b.Column(i).Kind {
			return false
		}
	}
	return true
}
