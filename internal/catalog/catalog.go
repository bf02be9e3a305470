package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/titlescope/internal/engine"
	"github.com/KaramelBytes/titlescope/internal/table"
)

// ErrUnknownQuery is returned when a query name is not in the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// Catalog is an ordered set of named pipelines.
type Catalog struct {
	order   []string
	entries map[string]engine.Pipeline
	builtin map[string]bool
}

// Default returns a catalog holding only the built-in analyses.
func Default() *Catalog {
	c := &Catalog{entries: map[string]engine.Pipeline{}, builtin: map[string]bool{}}
	for _, p := range Builtins() {
		c.order = append(c.order, p.Name)
		c.entries[p.Name] = p
		c.builtin[p.Name] = true
	}
	return c
}

// Names lists the built-in query names in catalog order.
func Names() []string {
	return Default().Names()
}

// Names lists every query in the catalog, built-ins first.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Lookup returns the pipeline registered under name.
func (c *Catalog) Lookup(name string) (engine.Pipeline, error) {
	p, ok := c.entries[name]
	if !ok {
		return engine.Pipeline{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}
	return p, nil
}

// IsBuiltin reports whether name is one of the stock analyses.
func (c *Catalog) IsBuiltin(name string) bool { return c.builtin[name] }

// Add registers a pipeline after validating it against the titles schema.
func (c *Catalog) Add(p engine.Pipeline) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("query has no name")
	}
	if _, dup := c.entries[name]; dup {
		if c.builtin[name] {
			return fmt.Errorf("query %q clashes with a built-in query", name)
		}
		return fmt.Errorf("query %q is defined twice", name)
	}
	if _, err := p.Compile(table.TitlesSchema); err != nil {
		return err
	}
	p.Name = name
	c.order = append(c.order, name)
	c.entries[name] = p
	return nil
}

// File is the on-disk layout of a user query file.
type File struct {
	Queries []engine.Pipeline `yaml:"queries"`
}

// LoadFile reads extra pipelines from a YAML file and adds them to c.
func (c *Catalog) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read queries file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse queries file %s: %w", path, err)
	}
	for i, p := range f.Queries {
		if err := c.Add(p); err != nil {
			return fmt.Errorf("queries file %s: entry %d: %w", path, i+1, err)
		}
	}
	return nil
}
