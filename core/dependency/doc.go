// Package dependency dispatches calls to external dependencies through a
// registered call implementation, an execution policy and a metrics sink.
//
// A request is a plain struct that embeds Returns to declare its response
// type and provides a Kind method. Kinds are the explicit routing tag: the
// route table is a map from Kind to the resolved call chain, built once when
// the Dispatcher is created and read without locking afterwards.
//
// # Defining requests
//
//	type GetRate struct {
//		dependency.Returns[Rate]
//		From string `validate:"required,len=3"`
//		To   string `validate:"required,len=3"`
//	}
//
//	func (GetRate) Kind() dependency.Kind { return "fx.get_rate" }
//
// # Registration
//
// Every kind has exactly one call implementation. Decorators and a fallback
// are optional:
//
//	reg := dependency.NewRegistry()
//	dependency.Register(reg, client.GetRate,
//		dependency.WithFallback(dependency.CachedFallback[GetRate, Rate](store, rateKey)),
//	)
//	dependency.Decorate(reg,
//		dependency.CacheResponses[GetRate, Rate](store, rateKey, time.Hour),
//		dependency.RateLimit[GetRate, Rate](rate.NewLimiter(20, 5)),
//	)
//
// Decorators run in registration order. The first decorator registered for a
// kind is the outermost; the call implementation is innermost and runs once
// per attempt.
//
// # Dispatching
//
//	d, err := dependency.NewDispatcher(reg,
//		dependency.WithMetrics(sink),
//		dependency.WithDefaultPolicy(dependency.NewPolicy(
//			dependency.WithAttemptTimeout(2*time.Second),
//			dependency.WithRetry(3),
//		)),
//		dependency.WithMiddleware(dependency.ValidationMiddleware(nil)),
//	)
//	if err != nil {
//		return err
//	}
//
//	rate, err := dependency.Dispatch(ctx, d, GetRate{From: "EUR", To: "USD"})
//
// # Outcomes
//
// Every dispatch with a registered implementation records exactly one metric:
//
//   - Succeeded when the implementation returns a response, possibly after retries
//   - Fallback when the primary call failed and the fallback returned a response
//   - Failed for every other terminal failure, including a failed fallback
//
// Requests without an implementation fail with ErrMissingImplementation and
// record nothing. Caller cancellation fails with ErrCanceled and never runs
// the fallback. Failures are returned as *DispatchError or *FallbackError;
// both keep the original errors reachable through errors.Is and errors.As.
//
// # Policies
//
// ResiliencePolicy delegates retry delays to cenkalti/backoff and circuit
// breaking to sony/gobreaker:
//
//	policy := dependency.NewPolicy(
//		dependency.WithAttemptTimeout(time.Second),
//		dependency.WithRetry(2),
//		dependency.WithBackoff(50*time.Millisecond, time.Second),
//		dependency.WithRetryIf(pg.IsTransientError),
//		dependency.WithCircuitBreaker(dependency.BreakerConfig{FailureThreshold: 5}),
//	)
//
// Intermediate attempts are never reported to the metrics sink. Wrap an error
// with Permanent to stop retries for it.
package dependency
