// Package memory provides in-memory implementations of the store
// interfaces. They are safe for concurrent use and intended for tests
// and local development without a database.
package memory
