package dependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/dmitrymomot/callkit/core/logger"
)

// Policy executes one dispatch of a kind, possibly invoking call several times.
// Implementations must honor ctx cancellation both during calls and while waiting between them.
type Policy interface {
	Execute(ctx context.Context, kind Kind, call func(ctx context.Context) (any, error)) (any, error)
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ctx context.Context, kind Kind, call func(ctx context.Context) (any, error)) (any, error)

func (f PolicyFunc) Execute(ctx context.Context, kind Kind, call func(ctx context.Context) (any, error)) (any, error) {
	return f(ctx, kind, call)
}

// NoPolicy invokes the call exactly once.
var NoPolicy Policy = PolicyFunc(func(ctx context.Context, _ Kind, call func(ctx context.Context) (any, error)) (any, error) {
	return call(withAttempt(ctx, 1))
})

// BreakerConfig configures the per-kind circuit breakers of a ResiliencePolicy.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before going half-open.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial calls allowed while half-open.
	HalfOpenRequests uint32
	// Interval clears the failure counts while closed. Zero never clears them.
	Interval time.Duration
}

// ResiliencePolicy combines a per-attempt timeout, retries with exponential
// backoff and a circuit breaker per request kind.
// Retry delays come from cenkalti/backoff and breaker state from sony/gobreaker.
// It is safe for concurrent use.
type ResiliencePolicy struct {
	timeout         time.Duration
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	retryIf         func(error) bool
	onRetry         func(ctx context.Context, kind Kind, attempt int, err error, delay time.Duration)
	breaker         *BreakerConfig
	logger          *slog.Logger

	mu       sync.Mutex
	breakers map[Kind]*gobreaker.CircuitBreaker[any]
}

// PolicyOption configures a ResiliencePolicy.
type PolicyOption func(*ResiliencePolicy)

// NewPolicy creates a ResiliencePolicy. Without options it behaves like NoPolicy.
//
// Example:
//
//	policy := dependency.NewPolicy(
//	    dependency.WithAttemptTimeout(2*time.Second),
//	    dependency.WithRetry(3),
//	    dependency.WithBackoff(100*time.Millisecond, 5*time.Second),
//	    dependency.WithCircuitBreaker(dependency.BreakerConfig{
//	        FailureThreshold: 5,
//	        OpenTimeout:      30 * time.Second,
//	    }),
//	)
func NewPolicy(opts ...PolicyOption) *ResiliencePolicy {
	p := &ResiliencePolicy{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     10 * time.Second,
		logger:          logger.Discard(),
		breakers:        make(map[Kind]*gobreaker.CircuitBreaker[any]),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithAttemptTimeout bounds every attempt. Zero disables the bound.
func WithAttemptTimeout(d time.Duration) PolicyOption {
	return func(p *ResiliencePolicy) {
		p.timeout = d
	}
}

// WithRetry sets how many times a failed attempt is retried.
func WithRetry(maxRetries int) PolicyOption {
	return func(p *ResiliencePolicy) {
		if maxRetries > 0 {
			p.maxRetries = uint64(maxRetries)
		}
	}
}

// WithBackoff sets the initial and maximum delay between retries.
// Delays grow exponentially with jitter.
func WithBackoff(initial, max time.Duration) PolicyOption {
	return func(p *ResiliencePolicy) {
		if initial > 0 {
			p.initialInterval = initial
		}
		if max > 0 {
			p.maxInterval = max
		}
	}
}

// WithRetryIf restricts retries to errors accepted by fn.
// Permanent errors are never retried regardless of fn.
func WithRetryIf(fn func(error) bool) PolicyOption {
	return func(p *ResiliencePolicy) {
		p.retryIf = fn
	}
}

// WithOnRetry registers a callback invoked before each retry wait.
func WithOnRetry(fn func(ctx context.Context, kind Kind, attempt int, err error, delay time.Duration)) PolicyOption {
	return func(p *ResiliencePolicy) {
		p.onRetry = fn
	}
}

// WithCircuitBreaker enables a circuit breaker per request kind.
func WithCircuitBreaker(cfg BreakerConfig) PolicyOption {
	return func(p *ResiliencePolicy) {
		if cfg.FailureThreshold == 0 {
			cfg.FailureThreshold = 5
		}
		if cfg.OpenTimeout <= 0 {
			cfg.OpenTimeout = 30 * time.Second
		}
		if cfg.HalfOpenRequests == 0 {
			cfg.HalfOpenRequests = 1
		}
		p.breaker = &cfg
	}
}

// WithPolicyLogger sets the logger used for retry and breaker state events.
func WithPolicyLogger(l *slog.Logger) PolicyOption {
	return func(p *ResiliencePolicy) {
		if l != nil {
			p.logger = l
		}
	}
}

// Execute runs call under the policy.
// Caller cancellation aborts both the running attempt and any backoff wait.
func (p *ResiliencePolicy) Execute(ctx context.Context, kind Kind, call func(ctx context.Context) (any, error)) (any, error) {
	var (
		result  any
		attempt int
	)

	operation := func() error {
		attempt++
		v, err := p.attempt(ctx, kind, attempt, call)
		if err == nil {
			result = v
			return nil
		}
		if ctx.Err() != nil || !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		p.logger.DebugContext(ctx, "retrying dependency call",
			logger.Request(kind.String()),
			logger.Attempt(attempt),
			logger.RetryDelay(delay),
			logger.Error(err))
		if p.onRetry != nil {
			p.onRetry(ctx, kind, attempt, err, delay)
		}
	}

	err := backoff.RetryNotify(operation, p.backOff(ctx), notify)
	if err != nil {
		if attempt > 1 {
			return nil, fmt.Errorf("failed after %d attempts: %w", attempt, err)
		}
		return nil, err
	}
	return result, nil
}

func (p *ResiliencePolicy) backOff(ctx context.Context) backoff.BackOff {
	if p.maxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.initialInterval
	exp.MaxInterval = p.maxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, p.maxRetries), ctx)
}

func (p *ResiliencePolicy) retryable(err error) bool {
	if IsPermanent(err) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if p.retryIf != nil {
		return p.retryIf(err)
	}
	return true
}

// attempt runs a single try, guarded by the kind's breaker when enabled.
func (p *ResiliencePolicy) attempt(ctx context.Context, kind Kind, n int, call func(ctx context.Context) (any, error)) (any, error) {
	ctx = withAttempt(ctx, n)

	cb := p.breakerFor(kind)
	if cb == nil {
		return p.runWithTimeout(ctx, call)
	}

	v, err := cb.Execute(func() (any, error) {
		v, err := p.runWithTimeout(ctx, call)
		if err != nil && ctx.Err() != nil {
			return nil, callerAbort{err: err}
		}
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, kind)
	}
	var abort callerAbort
	if errors.As(err, &abort) {
		return nil, abort.err
	}
	return v, err
}

// callerAbort marks an attempt ended by the caller's context.
// The breaker counts it as a success so one caller cannot open the circuit for others.
type callerAbort struct {
	err error
}

func (e callerAbort) Error() string { return e.err.Error() }
func (e callerAbort) Unwrap() error { return e.err }

// runWithTimeout enforces the attempt timeout even when call ignores its context.
func (p *ResiliencePolicy) runWithTimeout(ctx context.Context, call func(ctx context.Context) (any, error)) (any, error) {
	if p.timeout <= 0 {
		return call(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		v   any
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		v, err := call(attemptCtx)
		resCh <- result{v: v, err: err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil && ctx.Err() == nil && errors.Is(res.err, context.DeadlineExceeded) && attemptCtx.Err() != nil {
			return nil, p.timeoutError()
		}
		return res.v, res.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, p.timeoutError()
	}
}

func (p *ResiliencePolicy) timeoutError() error {
	return fmt.Errorf("%w after %s: %w", ErrTimeout, p.timeout, context.DeadlineExceeded)
}

func (p *ResiliencePolicy) breakerFor(kind Kind) *gobreaker.CircuitBreaker[any] {
	if p.breaker == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[kind]; ok {
		return cb
	}

	cfg := *p.breaker
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        kind.String(),
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				logger.Request(name),
				logger.Key("from", from.String()),
				logger.Key("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			var abort callerAbort
			return err == nil || IsPermanent(err) || errors.As(err, &abort)
		},
	})
	p.breakers[kind] = cb
	return cb
}

// BreakerState reports the circuit state of kind.
// It returns false when breaking is disabled or kind has not been called yet.
func (p *ResiliencePolicy) BreakerState(kind Kind) (gobreaker.State, bool) {
	if p.breaker == nil {
		return gobreaker.StateClosed, false
	}

	p.mu.Lock()
	cb, ok := p.breakers[kind]
	p.mu.Unlock()

	if !ok {
		return gobreaker.StateClosed, false
	}
	return cb.State(), true
}
