package cqrs

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// CommandTimeout returns a decorator enforcing a maximum execution time.
// Cancels the handler's context if it exceeds the timeout.
//
// Example:
//
//	cqrs.RegisterCommand(bus, resizeImage,
//	    cqrs.CommandTimeout[ResizeImage](30*time.Second),
//	)
func CommandTimeout[C Command](timeout time.Duration) CommandDecorator[C] {
	return func(next CommandHandler[C]) CommandHandler[C] {
		return func(ctx context.Context, cmd C) error {
			_, err := withTimeout(ctx, timeout, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, next(ctx, cmd)
			})
			return err
		}
	}
}

// QueryTimeout returns a decorator enforcing a maximum execution time.
func QueryTimeout[Q Query[R], R any](timeout time.Duration) QueryDecorator[Q, R] {
	return func(next QueryHandler[Q, R]) QueryHandler[Q, R] {
		return func(ctx context.Context, q Q) (R, error) {
			return withTimeout(ctx, timeout, func(ctx context.Context) (R, error) {
				return next(ctx, q)
			})
		}
	}
}

// CommandRetry returns a decorator retrying failed commands with exponential backoff.
//
// Parameters:
// - maxRetries: Maximum number of retry attempts
// - initialDelay: Starting delay duration
// - maxDelay: Maximum delay duration (caps exponential growth)
//
// Example:
//
//	cqrs.RegisterCommand(bus, sendEmail,
//	    cqrs.CommandRetry[SendEmail](5, 100*time.Millisecond, 10*time.Second),
//	)
func CommandRetry[C Command](maxRetries int, initialDelay, maxDelay time.Duration) CommandDecorator[C] {
	return func(next CommandHandler[C]) CommandHandler[C] {
		return func(ctx context.Context, cmd C) error {
			_, err := withRetry(ctx, maxRetries, initialDelay, maxDelay, func() (struct{}, error) {
				return struct{}{}, next(ctx, cmd)
			})
			return err
		}
	}
}

// QueryRetry returns a decorator retrying failed queries with exponential backoff.
func QueryRetry[Q Query[R], R any](maxRetries int, initialDelay, maxDelay time.Duration) QueryDecorator[Q, R] {
	return func(next QueryHandler[Q, R]) QueryHandler[Q, R] {
		return func(ctx context.Context, q Q) (R, error) {
			return withRetry(ctx, maxRetries, initialDelay, maxDelay, func() (R, error) {
				return next(ctx, q)
			})
		}
	}
}

func withTimeout[T any](parent context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		resCh <- result{v: v, err: err}
	}()

	select {
	case res := <-resCh:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		if err := parent.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, ctx.Err())
	}
}

func withRetry[T any](ctx context.Context, maxRetries int, initialDelay, maxDelay time.Duration, fn func() (T, error)) (T, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initialDelay
	exp.MaxInterval = maxDelay
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if maxRetries >= 0 {
		b = backoff.WithMaxRetries(exp, uint64(maxRetries))
	}

	attempts := 0
	v, err := backoff.RetryWithData(func() (T, error) {
		attempts++
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return v, fmt.Errorf("failed after %d attempts: %w", attempts, err)
	}
	return v, nil
}
