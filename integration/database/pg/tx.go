package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/callkit/core/cqrs"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn in a transaction carried on its context.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics. If ctx already carries a transaction, fn joins it.
func InTx(ctx context.Context, db TxBeginner, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrFailedToBeginTx, err)
	}

	// Rollback must run even when the caller's context is already canceled.
	cleanupCtx := context.WithoutCancel(ctx)
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(cleanupCtx)
			panic(p)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(cleanupCtx); rbErr != nil && !IsTxClosedError(rbErr) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrFailedToCommitTx, err)
	}
	return nil
}

// Transactional returns a command decorator running the handler inside InTx.
// Queries inside the handler pick the transaction up through Conn, Select, Get and Exec.
//
// Example:
//
//	cqrs.RegisterCommand(bus, issueInvoice, pg.Transactional[IssueInvoice](pool))
func Transactional[C cqrs.Command](db TxBeginner) cqrs.CommandDecorator[C] {
	return func(next cqrs.CommandHandler[C]) cqrs.CommandHandler[C] {
		return func(ctx context.Context, cmd C) error {
			return InTx(ctx, db, func(ctx context.Context) error {
				return next(ctx, cmd)
			})
		}
	}
}
