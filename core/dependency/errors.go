package dependency

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingImplementation is returned when no call implementation is registered for a request kind.
	// It is a configuration error and is never retried.
	ErrMissingImplementation = errors.New("no call implementation registered for request")

	// ErrDuplicateImplementation is used when a second implementation is registered for the same kind.
	ErrDuplicateImplementation = errors.New("call implementation already registered for request")

	// ErrDuplicateFallback is used when a second fallback is registered for the same kind.
	ErrDuplicateFallback = errors.New("fallback already registered for request")

	// ErrNilRequest is returned when Dispatch is called with a nil request.
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrTimeout is returned when an attempt exceeds the policy timeout.
	ErrTimeout = errors.New("dependency call timed out")

	// ErrCircuitOpen is returned when the circuit breaker for a kind rejects the call.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimited is returned when a rate limiter rejects or cannot admit the call.
	ErrRateLimited = errors.New("dependency call rate limited")

	// ErrCanceled is returned when the caller cancels the dispatch context.
	ErrCanceled = errors.New("dependency call canceled")

	// ErrFallbackFailed is matched by FallbackError.
	ErrFallbackFailed = errors.New("fallback execution failed")

	// ErrPanic is returned when a handler or fallback panics.
	ErrPanic = errors.New("dependency call panicked")

	// ErrInvalidRequest is returned when request validation fails.
	ErrInvalidRequest = errors.New("invalid dependency call request")

	// ErrUnexpectedResponse is returned when a response cannot be converted to the requested type.
	ErrUnexpectedResponse = errors.New("unexpected response type")

	// ErrRequestMismatch is returned when a request's Go type differs from the type registered for its kind.
	ErrRequestMismatch = errors.New("request type does not match registered kind")

	// ErrCacheMiss is returned by a ResponseStore when the key is absent.
	ErrCacheMiss = errors.New("cached response not found")
)

// Stage identifies which part of the pipeline produced a failure.
type Stage string

const (
	StagePrimary  Stage = "primary"
	StagePolicy   Stage = "policy"
	StageFallback Stage = "fallback"
	StageCanceled Stage = "canceled"
)

// DispatchError annotates a terminal dispatch failure with the failing stage.
// errors.Is and errors.As see through it to the original error.
type DispatchError struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dependency %s: %s stage: %v", e.Kind, e.Stage, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// FallbackError is returned when both the primary call and its fallback fail.
// It matches ErrFallbackFailed as well as both underlying errors.
type FallbackError struct {
	Kind     Kind
	Primary  error
	Fallback error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("dependency %s: %v: primary: %v; fallback: %v", e.Kind, ErrFallbackFailed, e.Primary, e.Fallback)
}

func (e *FallbackError) Is(target error) bool { return target == ErrFallbackFailed }

func (e *FallbackError) Unwrap() []error { return []error{e.Primary, e.Fallback} }

// permanentError stops retries and is not counted by circuit breakers.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
// A nil err returns nil.
//
// Example:
//
//	if resp.StatusCode == http.StatusNotFound {
//	    return Rate{}, dependency.Permanent(ErrUnknownPair)
//	}
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	var p *permanentError
	if errors.As(err, &p) {
		return err
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// stageOf classifies a non-cancellation failure.
func stageOf(err error) Stage {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrRateLimited):
		return StagePolicy
	default:
		return StagePrimary
	}
}
