package dependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/callkit/core/logger"
)

// Dispatcher routes requests to their call implementations under an
// execution policy and reports every terminal outcome to a Metrics sink.
//
// The route table is built once by NewDispatcher and never changes, so a
// Dispatcher is safe for concurrent use without locking.
//
// Example:
//
//	reg := dependency.NewRegistry()
//	dependency.Register(reg, rates.Get, dependency.WithFallback(rates.FromCache))
//
//	d, err := dependency.NewDispatcher(reg,
//	    dependency.WithMetrics(promMetrics),
//	    dependency.WithDefaultPolicy(dependency.NewPolicy(dependency.WithRetry(2))),
//	)
//	if err != nil {
//	    return err
//	}
//	rate, err := dependency.Dispatch(ctx, d, GetRate{From: "EUR", To: "USD"})
type Dispatcher struct {
	routes         map[Kind]*route
	metrics        Metrics
	policy         Policy
	middleware     []Middleware
	defaultTimeout time.Duration
	logger         *slog.Logger
}

// NewDispatcher builds a Dispatcher from the registry.
// It fails if any kind has decorators or a fallback but no call implementation.
func NewDispatcher(reg *Registry, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		metrics: NopMetrics{},
		policy:  NoPolicy,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if reg == nil {
		reg = NewRegistry()
	}

	routes, err := reg.build(d.middleware, d.policy)
	if err != nil {
		return nil, err
	}
	d.routes = routes

	return d, nil
}

// Kinds returns the registered request kinds in sorted order.
func (d *Dispatcher) Kinds() []Kind {
	kinds := make([]Kind, 0, len(d.routes))
	for kind := range d.routes {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Dispatch routes req to its call implementation and returns the typed response.
//
// Example:
//
//	rate, err := dependency.Dispatch(ctx, d, GetRate{From: "EUR", To: "USD"})
//	switch {
//	case errors.Is(err, dependency.ErrCanceled):
//	    // caller gave up
//	case errors.Is(err, dependency.ErrFallbackFailed):
//	    // primary and fallback both failed
//	}
func Dispatch[Resp any](ctx context.Context, d *Dispatcher, req Request[Resp]) (Resp, error) {
	var zero Resp
	if req == nil {
		return zero, ErrNilRequest
	}

	v, err := d.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	return responseAs[Resp](req.Kind(), v)
}

// Dispatch is the type-erased form of the package-level Dispatch.
//
// A missing implementation fails immediately and records no metric.
// Otherwise exactly one of Succeeded, Failed or Fallback is recorded.
// Caller cancellation never triggers the fallback.
func (d *Dispatcher) Dispatch(ctx context.Context, req Kinded) (any, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	kind := req.Kind()
	rt, ok := d.routes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingImplementation, kind)
	}

	if CallID(ctx) == "" {
		ctx = WithCallID(ctx, uuid.NewString())
	}

	execCtx := ctx
	if d.defaultTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			execCtx, cancel = context.WithTimeout(ctx, d.defaultTimeout)
			defer cancel()
		}
	}

	start := time.Now()
	resp, err := rt.policy.Execute(execCtx, kind, func(ctx context.Context) (any, error) {
		return safeCall(ctx, rt.call, req)
	})
	if err == nil {
		elapsed := time.Since(start)
		d.metrics.Succeeded(kind, elapsed)
		d.logger.DebugContext(ctx, "dependency call succeeded",
			logger.Request(kind.String()),
			logger.Outcome(OutcomeSucceeded),
			logger.CallID(CallID(ctx)),
			logger.Duration(elapsed))
		return resp, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		elapsed := time.Since(start)
		cause := errors.Join(ErrCanceled, ctxErr, err)
		if errors.Is(err, ctxErr) {
			cause = errors.Join(ErrCanceled, err)
		}
		err = &DispatchError{Kind: kind, Stage: StageCanceled, Err: cause}
		d.metrics.Failed(kind, err, elapsed)
		d.logger.DebugContext(ctx, "dependency call canceled",
			logger.Request(kind.String()),
			logger.Outcome(OutcomeCanceled),
			logger.CallID(CallID(ctx)),
			logger.Duration(elapsed))
		return nil, err
	}

	if execCtx.Err() != nil && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w after %s: %w", ErrTimeout, d.defaultTimeout, err)
	}

	if rt.fallback == nil {
		elapsed := time.Since(start)
		err = &DispatchError{Kind: kind, Stage: stageOf(err), Err: err}
		d.metrics.Failed(kind, err, elapsed)
		d.logger.WarnContext(ctx, "dependency call failed",
			logger.Request(kind.String()),
			logger.Outcome(FailureOutcome(err)),
			logger.CallID(CallID(ctx)),
			logger.Duration(elapsed),
			logger.Error(err))
		return nil, err
	}

	fbResp, fbErr := safeFallback(ctx, rt.fallback, req, err)
	elapsed := time.Since(start)
	if fbErr != nil {
		ferr := &FallbackError{Kind: kind, Primary: err, Fallback: fbErr}
		d.metrics.Failed(kind, ferr, elapsed)
		d.logger.ErrorContext(ctx, "dependency call fallback failed",
			logger.Request(kind.String()),
			logger.Outcome(OutcomeFailed),
			logger.CallID(CallID(ctx)),
			logger.Duration(elapsed),
			logger.Errors(err, fbErr))
		return nil, ferr
	}

	d.metrics.Fallback(kind, elapsed)
	d.logger.InfoContext(ctx, "dependency call served by fallback",
		logger.Request(kind.String()),
		logger.Outcome(OutcomeFallback),
		logger.CallID(CallID(ctx)),
		logger.Duration(elapsed),
		logger.Error(err))
	return fbResp, nil
}
