// Package service provides application-level services for recording
// memorization progress and managing the student roster.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is/errors.As to check for specific conditions, and the
// API layer maps them to HTTP status codes.
var (
	// ErrEmptySections indicates a bulk operation was invoked with no
	// section IDs. API layer should map this to HTTP 400 Bad Request.
	ErrEmptySections = errors.New("no sections given")
)

// LedgerServiceError is a custom error type for ledger service errors.
type LedgerServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LedgerServiceError.
func (e *LedgerServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("ledger service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LedgerServiceError) Unwrap() error {
	return e.Err
}

// NewLedgerServiceError creates a new LedgerServiceError.
func NewLedgerServiceError(operation, message string, err error) *LedgerServiceError {
	return &LedgerServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
