package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maktab/hifdh-api/internal/store"
)

// PostgreSQL error codes
const (
	pgForeignKeyViolationCode = "23503"
	pgUniqueViolationCode     = "23505"
)

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// constraint violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}

// mapStoreFailure wraps driver-level failures as store.ErrUnavailable so the
// engine and the HTTP layer can classify them without knowing pgx.
// Constraint violations and not-found conditions are mapped before this is
// reached.
func mapStoreFailure(operation string, err error) error {
	return fmt.Errorf("%w: %s: %v", store.ErrUnavailable, operation, err)
}
