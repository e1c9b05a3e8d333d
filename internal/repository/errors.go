// Package repository holds the MySQL data access code. Every exported
// method returns either nil or an *apperr.Error so that handlers can map
// failures to HTTP responses without looking at driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/tattler/internal/apperr"
)

// queryTimeout bounds every store call.
const queryTimeout = 5 * time.Second

const (
	// mysqlDuplicateEntry is ER_DUP_ENTRY, raised by unique index violations.
	mysqlDuplicateEntry = 1062
	// mysqlDataTooLong is ER_DATA_TOO_LONG, raised in strict mode when a
	// value exceeds its column width.
	mysqlDataTooLong = 1406
)

// DBTX is the subset of *sql.DB used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// classify converts a driver error into the application taxonomy.
// notFound is used as the message when the row does not exist and
// conflict when a unique index rejects the write. Oversized values are
// reported as validation failures.
func classify(err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(notFound)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return apperr.Wrap(apperr.CodeConflict, err, conflict)
		case mysqlDataTooLong:
			return apperr.Wrap(apperr.CodeValidation, err, "value too long")
		}
	}
	return apperr.Upstream(err, "database error")
}

// affectedOrNotFound turns a zero-row update or delete into NotFound.
func affectedOrNotFound(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Upstream(err, "database error")
	}
	if n == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}
