// Package callkit is a toolkit for services that call out to other systems.
//
// The core is core/dependency: typed request dispatch with per-route fallbacks,
// retry, timeouts and circuit breaking, and one metrics record per call.
// core/cqrs dispatches in-process commands and queries the same way.
//
// Around them:
//
//   - core/config: layered configuration (dotenv, secrets dirs, S3, environment) with encrypted values
//   - core/logger: slog construction and attribute helpers
//   - core/health: liveness and readiness probes
//   - integration/database/pg: pgx pools, typed queries, transactions, goose migrations
//   - integration/database/redis: go-redis client and a shared response store
//   - integration/storage/s3: configuration layers stored in buckets
//   - integration/observability: Prometheus and OpenTelemetry sinks and tracing
//   - pkg: money, plural forms, typed IDs, futures, secrets
package callkit
