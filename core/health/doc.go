// Package health provides liveness and readiness probes for services built on callkit.
//
// Readiness runs dependency checks concurrently. Any func(context.Context) error
// is a Check, including pg.Healthcheck and redis.Healthcheck. CircuitCheck turns
// open circuit breakers of a dependency.ResiliencePolicy into readiness failures.
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		health.Named("postgres", pg.Healthcheck(pool)),
//		health.CircuitCheck(policy, GetRate{}.Kind()),
//	))
//	mux.HandleFunc("GET /ping", health.NoContent)
package health
