package health

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrNotReady wraps every failed readiness run.
var ErrNotReady = errors.New("service not ready")

// Check reports whether one dependency is usable.
// pg.Healthcheck and redis.Healthcheck return values of this shape.
type Check func(ctx context.Context) error

// Named prefixes failures of check with name.
func Named(name string, check Check) Check {
	return func(ctx context.Context) error {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// Run executes all checks concurrently and joins their failures under ErrNotReady.
// A failed check does not cancel the others.
func Run(ctx context.Context, checks ...Check) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, check := range checks {
		g.Go(func() error {
			if err := check(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrNotReady, errors.Join(errs...))
}
