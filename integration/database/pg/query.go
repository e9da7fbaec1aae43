package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Select runs a query and maps every row to T by column name.
// The transaction carried by ctx is used when present.
//
// Example:
//
//	type Invoice struct {
//	    ID     string `db:"id"`
//	    Amount int64  `db:"amount"`
//	}
//
//	invoices, err := pg.Select[Invoice](ctx, pool,
//	    "SELECT id, amount FROM invoices WHERE customer_id = $1", customerID)
func Select[T any](ctx context.Context, db Querier, sql string, args ...any) ([]T, error) {
	rows, err := Conn(ctx, db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

// Get runs a query expected to return exactly one row and maps it to T.
// No rows fails with pgx.ErrNoRows, see IsNotFoundError.
func Get[T any](ctx context.Context, db Querier, sql string, args ...any) (T, error) {
	rows, err := Conn(ctx, db).Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
}

// Scalar runs a query returning one row with one column.
//
// Example:
//
//	count, err := pg.Scalar[int64](ctx, pool, "SELECT count(*) FROM invoices")
func Scalar[T any](ctx context.Context, db Querier, sql string, args ...any) (T, error) {
	rows, err := Conn(ctx, db).Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowTo[T])
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, db Querier, sql string, args ...any) (int64, error) {
	tag, err := Conn(ctx, db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
