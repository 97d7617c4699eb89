package util

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// InParallel calls fn for every input and returns the results in input order.
// At most limit calls run at once; limit <= 0 means no bound. It waits for
// every call to finish.
func InParallel[T, R any](ctx context.Context, inputs []T, limit int, fn func(context.Context, T) R) []R {
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range inputs {
		g.Go(func() error {
			results[i] = fn(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
