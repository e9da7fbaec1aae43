package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Copier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyRows bulk loads rows with the binary COPY protocol.
// table may be schema qualified ("billing.invoices"). values must return one
// value per column, in column order. The transaction carried by ctx is used
// when present.
//
// Example:
//
//	n, err := pg.CopyRows(ctx, pool, "billing.invoices", []string{"id", "amount"}, invoices,
//	    func(inv Invoice) []any { return []any{inv.ID, inv.Amount} },
//	)
func CopyRows[T any](ctx context.Context, db Copier, table string, columns []string, rows []T, values func(T) []any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if tx, ok := TxFromContext(ctx); ok {
		db = tx
	}

	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		v := values(rows[i])
		if len(v) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrCopyColumnMismatch, i, len(v), len(columns))
		}
		return v, nil
	})

	return db.CopyFrom(ctx, pgx.Identifier(strings.Split(table, ".")), columns, src)
}
