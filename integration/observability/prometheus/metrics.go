package prometheus

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/callkit/core/dependency"
)

const (
	labelRequest = "request"
	labelOutcome = "outcome"
)

// DefaultBuckets are latency buckets in seconds for typical remote calls.
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics is a dependency.Metrics sink exporting call latency and counts.
type Metrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
}

var _ dependency.Metrics = (*Metrics)(nil)

type options struct {
	registerer prometheus.Registerer
	namespace  string
	subsystem  string
	buckets    []float64
	constLabel prometheus.Labels
}

// Option configures Metrics.
type Option func(*options)

// WithRegisterer registers the collectors on r instead of prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithNamespace replaces the "callkit" metric namespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithSubsystem replaces the "dependency" metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(o *options) {
		o.subsystem = subsystem
	}
}

// WithBuckets replaces DefaultBuckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithConstLabels adds labels to every series, e.g. the service name.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabel = labels
	}
}

// New creates and registers the collectors. When a collector with the same
// name is already registered, the existing one is reused.
func New(opts ...Option) (*Metrics, error) {
	o := &options{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "callkit",
		subsystem:  "dependency",
		buckets:    DefaultBuckets,
	}
	for _, opt := range opts {
		opt(o)
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   o.namespace,
		Subsystem:   o.subsystem,
		Name:        "call_duration_seconds",
		Help:        "Duration of dependency calls from dispatch to terminal outcome.",
		Buckets:     o.buckets,
		ConstLabels: o.constLabel,
	}, []string{labelRequest, labelOutcome})

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   o.namespace,
		Subsystem:   o.subsystem,
		Name:        "calls_total",
		Help:        "Total dependency calls by terminal outcome.",
		ConstLabels: o.constLabel,
	}, []string{labelRequest, labelOutcome})

	var err error
	if duration, err = register(o.registerer, duration); err != nil {
		return nil, err
	}
	if calls, err = register(o.registerer, calls); err != nil {
		return nil, err
	}

	return &Metrics{duration: duration, calls: calls}, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(opts ...Option) *Metrics {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func register[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) Succeeded(kind dependency.Kind, elapsed time.Duration) {
	m.observe(kind, dependency.OutcomeSucceeded, elapsed)
}

func (m *Metrics) Failed(kind dependency.Kind, err error, elapsed time.Duration) {
	m.observe(kind, dependency.FailureOutcome(err), elapsed)
}

func (m *Metrics) Fallback(kind dependency.Kind, elapsed time.Duration) {
	m.observe(kind, dependency.OutcomeFallback, elapsed)
}

func (m *Metrics) observe(kind dependency.Kind, outcome string, elapsed time.Duration) {
	m.duration.WithLabelValues(kind.String(), outcome).Observe(elapsed.Seconds())
	m.calls.WithLabelValues(kind.String(), outcome).Inc()
}
