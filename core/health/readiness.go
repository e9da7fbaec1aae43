package health

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/callkit/core/logger"
)

// Readiness answers 200 "READY" when every check passes and 503 otherwise.
// Failures are logged, never written to the response.
//
// Example:
//
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		health.Named("postgres", pg.Healthcheck(pool)),
//		health.Named("redis", redis.Healthcheck(client)),
//		health.CircuitCheck(policy, GetRate{}.Kind()),
//	))
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if err := Run(r.Context(), checks...); err != nil {
			log.ErrorContext(r.Context(), "readiness check failed",
				logger.Component("health"),
				logger.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})
}
