// Package store defines the persistence interfaces the ledger engine depends
// on, together with the shared store error values. Implementations live in
// internal/platform (postgres for production, memory for tests and local
// development); the engine never assumes anything about how the interfaces
// are backed beyond the signatures and the transactional guarantees they
// document.
package store
