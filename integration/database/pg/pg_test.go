package pg_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/integration/database/pg"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	pgErr := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsNotFoundError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
		assert.False(t, pg.IsNotFoundError(errors.New("boom")))
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsDuplicateKeyError(pgErr("23505")))
		assert.False(t, pg.IsDuplicateKeyError(pgErr("23503")))
		assert.False(t, pg.IsDuplicateKeyError(nil))
	})

	t.Run("foreign key", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsForeignKeyViolationError(pgErr("23503")))
		assert.False(t, pg.IsForeignKeyViolationError(pgErr("23505")))
	})

	t.Run("tx closed", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
		assert.False(t, pg.IsTxClosedError(errors.New("boom")))
	})

	t.Run("transient", func(t *testing.T) {
		t.Parallel()
		for _, code := range []string{"40001", "40P01", "53300", "57P01", "57P03", "08006", "08001"} {
			assert.True(t, pg.IsTransientError(pgErr(code)), code)
		}
		assert.False(t, pg.IsTransientError(pgErr("23505")))
		assert.False(t, pg.IsTransientError(errors.New("boom")))
		assert.False(t, pg.IsTransientError(nil))
	})
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("empty connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(context.Background(), pg.Config{})
		assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		t.Parallel()
		_, err := pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://user@localhost:bad/db"})
		assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
	})
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		err := pg.Migrate(context.Background(), nil, pg.Config{}, nil)
		assert.ErrorIs(t, err, pg.ErrMigrationPathNotProvided)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		cfg := pg.Config{MigrationsPath: t.TempDir() + "/missing"}
		err := pg.Migrate(context.Background(), nil, cfg, nil)
		assert.ErrorIs(t, err, pg.ErrMigrationsDirNotFound)
	})
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, pg.Healthcheck(pinger{})(context.Background()))

	down := errors.New("connection refused")
	err := pg.Healthcheck(pinger{err: down})(context.Background())
	assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
	assert.ErrorIs(t, err, down)
}
