package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql methods the stores issue queries
// through. Both *sql.DB and *sql.Tx satisfy it, so a store can run its
// statements directly against the pool or inside a caller-owned
// transaction without knowing which it was given.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
