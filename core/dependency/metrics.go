package dependency

import (
	"errors"
	"time"
)

// Outcome labels shared by logs and metrics sinks.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeTimeout   = "timeout"
	OutcomeCanceled  = "canceled"
	OutcomeFallback  = "fallback"
)

// FailureOutcome labels the error passed to Metrics.Failed.
func FailureOutcome(err error) string {
	switch {
	case errors.Is(err, ErrCanceled):
		return OutcomeCanceled
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeFailed
	}
}

// Metrics records the terminal outcome of every dispatch.
// Implementations must be safe for concurrent use and must not block.
type Metrics interface {
	// Succeeded records a call that returned a response from its implementation.
	Succeeded(kind Kind, elapsed time.Duration)
	// Failed records a call that ended with an error, including a failed fallback.
	Failed(kind Kind, err error, elapsed time.Duration)
	// Fallback records a call whose response came from its fallback.
	Fallback(kind Kind, elapsed time.Duration)
}

// NopMetrics discards every record. It is the Dispatcher default.
type NopMetrics struct{}

func (NopMetrics) Succeeded(Kind, time.Duration) {}
func (NopMetrics) Failed(Kind, error, time.Duration) {}
func (NopMetrics) Fallback(Kind, time.Duration) {}

// TeeMetrics returns a sink forwarding every record to all sinks in order.
// Nil sinks are skipped.
func TeeMetrics(sinks ...Metrics) Metrics {
	filtered := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

type tee []Metrics

func (t tee) Succeeded(kind Kind, elapsed time.Duration) {
	for _, m := range t {
		m.Succeeded(kind, elapsed)
	}
}

func (t tee) Failed(kind Kind, err error, elapsed time.Duration) {
	for _, m := range t {
		m.Failed(kind, err, elapsed)
	}
}

func (t tee) Fallback(kind Kind, elapsed time.Duration) {
	for _, m := range t {
		m.Fallback(kind, elapsed)
	}
}
