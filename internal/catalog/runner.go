package catalog

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Runner evaluates catalog queries against a loaded table. The table is
// shared read-only, so queries run concurrently without locking.
type Runner struct {
	catalog     *Catalog
	log         *zap.Logger
	parallelism int
}

// NewRunner returns a runner over c. A nil logger disables logging and a
// parallelism below 1 means one worker per CPU.
func NewRunner(c *Catalog, log *zap.Logger, parallelism int) *Runner {
	if c == nil {
		c = Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}
	return &Runner{catalog: c, log: log, parallelism: parallelism}
}

func (r *Runner) Catalog() *Catalog { return r.catalog }

// RunQuery evaluates one named query. Returned errors name the query.
func (r *Runner) RunQuery(ctx context.Context, name string, t *table.Table) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	p, err := r.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := p.Run(t)
	if err != nil {
		r.log.Debug("query failed", zap.String("query", name), zap.Error(err))
		return nil, err
	}
	r.log.Debug("query finished",
		zap.String("query", name),
		zap.String("table_id", t.ID()),
		zap.Int("rows_in", t.Len()),
		zap.Int("rows_out", out.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// RunAll evaluates every query in the catalog. Results are keyed by query
// name. A failing query does not stop the others; all failures are joined
// into the returned error alongside the successful results.
func (r *Runner) RunAll(ctx context.Context, t *table.Table) (map[string]*table.Table, error) {
	return r.RunMany(ctx, r.catalog.Names(), t)
}

// RunMany evaluates the named queries concurrently.
func (r *Runner) RunMany(ctx context.Context, names []string, t *table.Table) (map[string]*table.Table, error) {
	results := make([]*table.Table, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, name := range names {
		g.Go(func() error {
			out, err := r.RunQuery(ctx, name, t)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]*table.Table, len(names))
	for i, name := range names {
		if results[i] != nil {
			out[name] = results[i]
		}
	}
	return out, errors.Join(errs...)
}
