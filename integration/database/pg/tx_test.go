package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/core/cqrs"
	"github.com/dmitrymomot/callkit/integration/database/pg"
)

// fakeTx records how a transaction was finished. Unused pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	err   error
	calls int
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestInTx(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{tx: &fakeTx{}}

		err := pg.InTx(context.Background(), db, func(ctx context.Context) error {
			tx, ok := pg.TxFromContext(ctx)
			require.True(t, ok)
			assert.Same(t, db.tx, tx)
			return nil
		})

		require.NoError(t, err)
		assert.True(t, db.tx.committed)
		assert.False(t, db.tx.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{tx: &fakeTx{}}
		boom := errors.New("boom")

		err := pg.InTx(context.Background(), db, func(context.Context) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
	})

	t.Run("rolls back with canceled context", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{tx: &fakeTx{}}
		ctx, cancel := context.WithCancel(context.Background())
		boom := errors.New("boom")

		err := pg.InTx(ctx, db, func(context.Context) error {
			cancel()
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, context.Canceled)
		assert.True(t, db.tx.rolledBack)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{tx: &fakeTx{}}

		assert.PanicsWithValue(t, "kaboom", func() {
			_ = pg.InTx(context.Background(), db, func(context.Context) error { panic("kaboom") })
		})
		assert.True(t, db.tx.rolledBack)
	})

	t.Run("joins existing transaction", func(t *testing.T) {
		t.Parallel()
		outer := &fakeTx{}
		db := &fakeBeginner{tx: &fakeTx{}}
		ctx := pg.WithTx(context.Background(), outer)

		err := pg.InTx(ctx, db, func(ctx context.Context) error {
			tx, _ := pg.TxFromContext(ctx)
			assert.Same(t, outer, tx)
			return nil
		})

		require.NoError(t, err)
		assert.Zero(t, db.calls)
		assert.False(t, outer.committed)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{err: errors.New("no connection")}

		err := pg.InTx(context.Background(), db, func(context.Context) error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, pg.ErrFailedToBeginTx)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()
		db := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization")}}

		err := pg.InTx(context.Background(), db, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, pg.ErrFailedToCommitTx)
	})
}

type CreateInvoice struct {
	Customer string
}

func (CreateInvoice) CommandName() string { return "create_invoice" }

func TestTransactional(t *testing.T) {
	t.Parallel()

	db := &fakeBeginner{tx: &fakeTx{}}
	bus := cqrs.NewBus()

	var sawTx bool
	cqrs.RegisterCommand(bus, func(ctx context.Context, cmd CreateInvoice) error {
		_, sawTx = pg.TxFromContext(ctx)
		return nil
	}, pg.Transactional[CreateInvoice](db))

	require.NoError(t, bus.Send(context.Background(), CreateInvoice{Customer: "acme"}))
	assert.True(t, sawTx)
	assert.True(t, db.tx.committed)
}

func TestConn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := pg.TxFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, ctx, pg.WithTx(ctx, nil))

	tx := &fakeTx{}
	assert.Same(t, tx, pg.Conn(pg.WithTx(ctx, tx), nil))
	assert.Nil(t, pg.Conn(ctx, nil))
}
