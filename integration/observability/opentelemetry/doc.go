// Package opentelemetry instruments dependency dispatch with OpenTelemetry.
//
// Metrics records the terminal outcome of every call on a meter:
//
//	dependency.call.duration (s)  histogram  {dependency.kind, dependency.outcome}
//	dependency.calls              counter    {dependency.kind, dependency.outcome}
//
// TracingMiddleware adds a span per attempt, so retries show up as sibling spans.
//
//	metrics, err := opentelemetry.NewMetrics(mp.Meter("billing"))
//	if err != nil {
//		return err
//	}
//	d, err := dependency.NewDispatcher(reg,
//		dependency.WithMetrics(metrics),
//		dependency.WithMiddleware(opentelemetry.TracingMiddleware(tp.Tracer("billing"))),
//	)
package opentelemetry
