package asyncx

import "context"

type indexed[R any] struct {
	i   int
	val R
}

// AsyncAll runs fn for every item concurrently and returns the results in
// input order. The first error wins; remaining goroutines finish in the
// background and their results are dropped.
func AsyncAll[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make(chan indexed[R], len(items))
	errs := make(chan error, len(items))

	for i, item := range items {
		go func(i int, item T) {
			result, err := fn(ctx, item)
			if err != nil {
				errs <- err
				return
			}
			results <- indexed[R]{i: i, val: result}
		}(i, item)
	}

	collected := make([]R, len(items))
	for range items {
		select {
		case err := <-errs:
			return nil, err
		case r := <-results:
			collected[r.i] = r.val
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return collected, nil
}
