package async

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Future is the result of a computation running in its own goroutine.
type Future[T any] struct {
	value T
	err   error
	done  chan struct{}
}

// Go runs fn asynchronously. A pre-canceled ctx completes the future with
// ctx.Err() without calling fn. A panic in fn completes it with an error.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async: panic: %v", r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.value, f.err = fn(ctx)
	}()

	return f
}

// Await blocks until the computation completes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits at most timeout. Expiry returns ErrTimeout; the
// computation keeps running.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// Done is closed when the computation completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the computation finished, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// All waits for every future and returns values in order.
// All errors are joined; values of failed futures are zero.
func All[T any](ctx context.Context, futures ...*Future[T]) ([]T, error) {
	values := make([]T, len(futures))
	var errs []error
	for i, f := range futures {
		v, err := f.Await(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[i] = v
	}
	return values, errors.Join(errs...)
}

// Any returns the index and result of the first future to complete.
func Any[T any](ctx context.Context, futures ...*Future[T]) (int, T, error) {
	var zero T
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	first := make(chan int, len(futures))
	for i, f := range futures {
		go func() {
			select {
			case <-f.done:
				first <- i
			case <-ctx.Done():
			}
		}()
	}

	select {
	case i := <-first:
		return i, futures[i].value, futures[i].err
	case <-ctx.Done():
		return -1, zero, ctx.Err()
	}
}
