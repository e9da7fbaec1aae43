// Package prometheus exports dependency dispatch outcomes as Prometheus metrics.
//
// Two series are recorded per terminal outcome, labeled with the request kind
// and one of succeeded, failed, timeout, canceled or fallback:
//
//	callkit_dependency_call_duration_seconds{request,outcome}
//	callkit_dependency_calls_total{request,outcome}
//
// Usage:
//
//	metrics, err := prometheus.New(prometheus.WithRegisterer(registry))
//	if err != nil {
//		return err
//	}
//	d, err := dependency.NewDispatcher(reg, dependency.WithMetrics(metrics))
package prometheus
