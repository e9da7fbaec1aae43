package dependency

import (
	"log/slog"
	"time"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics sets the metrics sink. A nil sink keeps NopMetrics.
//
// Example:
//
//	sink, _ := prometheus.New()
//	d, _ := dependency.NewDispatcher(reg, dependency.WithMetrics(sink))
func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithDefaultPolicy sets the policy for routes registered without WithPolicy.
// If not set, NoPolicy is used.
func WithDefaultPolicy(p Policy) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.policy = p
		}
	}
}

// WithLogger sets the logger for the dispatcher.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMiddleware sets middleware applied to every route in the order provided.
// Middleware runs outside route decorators and inside the policy, so it
// sees every attempt.
//
// Example:
//
//	d, _ := dependency.NewDispatcher(reg,
//	    dependency.WithMiddleware(
//	        dependency.LoggingMiddleware(logger),
//	        opentelemetry.TracingMiddleware(tracer),
//	    ),
//	)
func WithMiddleware(middleware ...Middleware) Option {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, middleware...)
	}
}

// WithDefaultTimeout bounds dispatches whose context carries no deadline.
// An expired default timeout is a timeout failure and may use the fallback.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.defaultTimeout = timeout
	}
}
