// Package pg provides PostgreSQL connectivity for dependency handlers and command handlers.
//
// It wraps the pgx driver with connect-time retry, goose migrations, typed query
// helpers and context-carried transactions.
//
//   - Connect: creates a pool and verifies it, retrying with exponential backoff
//   - Migrate: applies goose migrations through the pool
//   - Healthcheck: returns a ping function for readiness probes
//   - Select, Get, Scalar, Exec: typed queries that join the transaction on ctx
//   - CopyRows: bulk loads with the COPY protocol
//   - InTx, Transactional: transaction scoping for functions and cqrs commands
//   - IsTransientError and friends: error classification
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsPath    string        `env:"PG_MIGRATIONS_PATH" envDefault:"internal/db/migrations"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		return err
//	}
//
// A database-backed dependency retries only transient failures:
//
//	policy := dependency.NewPolicy(
//		dependency.WithRetry(3),
//		dependency.WithRetryIf(pg.IsTransientError),
//	)
//
//	dependency.Register(reg, func(ctx context.Context, q GetCustomer) (Customer, error) {
//		return pg.Get[Customer](ctx, pool, "SELECT id, name FROM customers WHERE id = $1", q.ID)
//	}, dependency.WithPolicy(policy))
//
// A command handler can run inside a transaction. Queries made through the
// package helpers inside the handler use it automatically:
//
//	cqrs.RegisterCommand(bus, createInvoice, pg.Transactional[CreateInvoice](pool))
//
// # Error Handling
//
//	if pg.IsNotFoundError(err) {
//		// no rows returned
//	}
//	if pg.IsDuplicateKeyError(err) {
//		// unique constraint violation
//	}
//	if pg.IsForeignKeyViolationError(err) {
//		// foreign key constraint violation
//	}
//
// Connection failures wrap ErrFailedToOpenDBConnection, migration failures wrap
// ErrFailedToApplyMigrations and health check failures wrap ErrHealthcheckFailed.
package pg
