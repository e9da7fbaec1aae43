package opentelemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dmitrymomot/callkit/core/dependency"
)

// ScopeName is the instrumentation scope used when no meter or tracer is given.
const ScopeName = "github.com/dmitrymomot/callkit"

const (
	attrKind    = attribute.Key("dependency.kind")
	attrOutcome = attribute.Key("dependency.outcome")
	attrCallID  = attribute.Key("dependency.call_id")
	attrAttempt = attribute.Key("dependency.attempt")
)

// Metrics is a dependency.Metrics sink recording to an OpenTelemetry meter.
type Metrics struct {
	duration metric.Float64Histogram
	calls    metric.Int64Counter
}

var _ dependency.Metrics = (*Metrics)(nil)

// NewMetrics creates the instruments on meter.
// A nil meter uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(ScopeName)
	}

	duration, err := meter.Float64Histogram(
		"dependency.call.duration",
		metric.WithDescription("Duration of dependency calls from dispatch to terminal outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	calls, err := meter.Int64Counter(
		"dependency.calls",
		metric.WithDescription("Total dependency calls by terminal outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{duration: duration, calls: calls}, nil
}

func (m *Metrics) Succeeded(kind dependency.Kind, elapsed time.Duration) {
	m.record(kind, dependency.OutcomeSucceeded, elapsed)
}

func (m *Metrics) Failed(kind dependency.Kind, err error, elapsed time.Duration) {
	m.record(kind, dependency.FailureOutcome(err), elapsed)
}

func (m *Metrics) Fallback(kind dependency.Kind, elapsed time.Duration) {
	m.record(kind, dependency.OutcomeFallback, elapsed)
}

func (m *Metrics) record(kind dependency.Kind, outcome string, elapsed time.Duration) {
	// Metrics carries no context; exemplars are not linked to spans.
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attrKind.String(kind.String()),
		attrOutcome.String(outcome),
	)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.calls.Add(ctx, 1, attrs)
}
