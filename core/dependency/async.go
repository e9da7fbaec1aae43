package dependency

import (
	"context"

	"github.com/dmitrymomot/callkit/pkg/async"
)

// Go dispatches req in its own goroutine. Use it to call independent
// dependencies concurrently and await them together.
//
// Example:
//
//	rate := dependency.Go(ctx, d, GetRate{From: "USD", To: "EUR"})
//	quote := dependency.Go(ctx, d, GetQuote{Symbol: "ACME"})
//
//	r, err := rate.Await(ctx)
//	q, err := quote.Await(ctx)
func Go[Resp any](ctx context.Context, d *Dispatcher, req Request[Resp]) *async.Future[Resp] {
	return async.Go(ctx, func(ctx context.Context) (Resp, error) {
		return Dispatch(ctx, d, req)
	})
}
