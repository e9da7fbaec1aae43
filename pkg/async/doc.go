// Package async runs computations in goroutines and collects their results as futures.
//
//	rates := async.Go(ctx, func(ctx context.Context) (Rate, error) {
//		return dependency.Dispatch(ctx, d, GetRate{From: "USD", To: "EUR"})
//	})
//	quote := async.Go(ctx, func(ctx context.Context) (Quote, error) {
//		return dependency.Dispatch(ctx, d, GetQuote{Symbol: "ACME"})
//	})
//
//	rate, err := rates.Await(ctx)
//	...
//
// All waits for a slice of futures of one type; Any returns the first to finish.
//
// # Error Handling
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when Any is called with no futures
package async
