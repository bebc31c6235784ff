package solver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fdpde/internal/pde"
)

// SolveAll solves independent bundles concurrently, at most limit at a time
// (GOMAXPROCS when limit <= 0). Results come back in bundle order. After the
// first failure or cancellation of ctx, solves that have not started are
// skipped; running solves finish.
func SolveAll(ctx context.Context, s pde.Solver, bundles []*pde.DataBundle, limit int) ([]*pde.Results, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]*pde.Results, len(bundles))
	for i, b := range bundles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.Solve(b)
			if err != nil {
				return fmt.Errorf("bundle %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
