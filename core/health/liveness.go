package health

import "net/http"

// Liveness indicates the process is running. It always answers 200 "ALIVE".
//
// Example:
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

// NoContent answers 204 without a body.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
