// Package postgres implements the store interfaces using a PostgreSQL
// database as the storage backend, accessed through database/sql with the
// pgx driver.
package postgres
