package pg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrHealthcheckFailed        = errors.New("postgres healthcheck failed")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrMigrationsDirNotFound    = errors.New("migrations directory not found")
	ErrMigrationPathNotProvided = errors.New("migration path not provided")
	ErrFailedToBeginTx          = errors.New("failed to begin transaction")
	ErrFailedToCommitTx         = errors.New("failed to commit transaction")
	ErrCopyColumnMismatch       = errors.New("copy row value count does not match columns")
)

// PostgreSQL error codes used by the classifiers.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	codeTooManyConnections  = "53300"
	codeAdminShutdown       = "57P01"
	codeCannotConnectNow    = "57P03"
	classConnectionError    = "08"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsNotFoundError reports whether err means the query returned no rows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsForeignKeyViolationError reports whether err is a foreign key violation.
func IsForeignKeyViolationError(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsTxClosedError reports whether err was caused by using a finished transaction.
func IsTxClosedError(err error) bool {
	return errors.Is(err, pgx.ErrTxClosed)
}

// IsTransientError reports whether retrying the operation may succeed:
// connection failures, serialization failures, deadlocks and server restarts.
// It fits dependency.WithRetryIf.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	switch code := pgCode(err); code {
	case codeSerializationFail, codeDeadlockDetected, codeTooManyConnections, codeAdminShutdown, codeCannotConnectNow:
		return true
	default:
		return strings.HasPrefix(code, classConnectionError)
	}
}
