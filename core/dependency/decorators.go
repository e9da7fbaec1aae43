package dependency

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Timeout returns a decorator enforcing a maximum execution time per call.
// The call's context is canceled when the timeout expires; the decorator
// returns ErrTimeout even if the call ignores its context.
//
// Example:
//
//	dependency.Decorate(reg, dependency.Timeout[GetRate, Rate](2*time.Second))
func Timeout[Req Request[Resp], Resp any](timeout time.Duration) Decorator[Req, Resp] {
	return func(next HandlerFunc[Req, Resp]) HandlerFunc[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				resp Resp
				err  error
			}
			resCh := make(chan result, 1)
			go func() {
				resp, err := next(ctx, req)
				resCh <- result{resp: resp, err: err}
			}()

			select {
			case res := <-resCh:
				return res.resp, res.err
			case <-ctx.Done():
				var zero Resp
				if ctx.Err() == context.DeadlineExceeded {
					return zero, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, ctx.Err())
				}
				return zero, ctx.Err()
			}
		}
	}
}

// RateLimit returns a decorator that waits for limiter before each call.
// If the wait cannot complete before the context deadline, the call fails
// with ErrRateLimited without reaching the implementation.
//
// Example:
//
//	dependency.Decorate(reg, dependency.RateLimit[GetRate, Rate](rate.NewLimiter(rate.Limit(50), 10)))
func RateLimit[Req Request[Resp], Resp any](limiter *rate.Limiter) Decorator[Req, Resp] {
	return func(next HandlerFunc[Req, Resp]) HandlerFunc[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			if err := limiter.Wait(ctx); err != nil {
				var zero Resp
				if ctx.Err() != nil {
					return zero, ctx.Err()
				}
				return zero, fmt.Errorf("%w: %s: %w", ErrRateLimited, req.Kind(), err)
			}
			return next(ctx, req)
		}
	}
}
