package api

import (
	"errors"
	"net/http"

	"github.com/maktab/hifdh-api/internal/catalog"
	"github.com/maktab/hifdh-api/internal/domain"
	"github.com/maktab/hifdh-api/internal/domain/progress"
	"github.com/maktab/hifdh-api/internal/service"
	"github.com/maktab/hifdh-api/internal/service/auth"
	"github.com/maktab/hifdh-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Overlap conflicts with existing ranges
	case errors.Is(err, progress.ErrRangeOverlap):
		return http.StatusConflict

	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, catalog.ErrSectionNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, progress.ErrRangeInvalid),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrEmptySections):
		return http.StatusBadRequest

	// Store outage
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Expected validation outcomes keep their
// detail so the caller can explain which range conflicted.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	// RangeOverlap and RangeInvalid are user-facing outcomes: the
	// message names the conflicting range or the violated bound.
	case errors.Is(err, progress.ErrRangeOverlap),
		errors.Is(err, progress.ErrRangeInvalid):
		return err.Error()

	case errors.Is(err, store.ErrStudentNotFound):
		return "Student not found"

	case errors.Is(err, store.ErrGroupNotFound):
		return "Group not found"

	case errors.Is(err, store.ErrPortionNotFound):
		return "Entry not found"

	case errors.Is(err, catalog.ErrSectionNotFound):
		return "Section not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrEmptySections):
		return "At least one section must be given"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	case errors.Is(err, store.ErrUnavailable):
		return "Storage temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}
