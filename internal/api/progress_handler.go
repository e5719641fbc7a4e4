package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maktab/hifdh-api/internal/api/shared"
	"github.com/maktab/hifdh-api/internal/catalog"
	"github.com/maktab/hifdh-api/internal/service"
)

// ProgressHandler serves the read-only progress endpoints: the section
// catalog, per-student status, group leaderboards, and group rollups.
type ProgressHandler struct {
	ledgerService *service.LedgerService
	catalog       catalog.Provider
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(ledgerService *service.LedgerService, cat catalog.Provider) *ProgressHandler {
	if ledgerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledgerService cannot be nil")
	}
	if cat == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil")
	}
	return &ProgressHandler{
		ledgerService: ledgerService,
		catalog:       cat,
	}
}

// ListSections handles GET /api/sections requests.
func (h *ProgressHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.catalog.ListSections())
}

// StudentStatus handles GET /api/students/{id}/status requests.
func (h *ProgressHandler) StudentStatus(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	status, err := h.ledgerService.StudentStatus(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// StudentEntries handles GET /api/students/{id}/entries requests. Entries
// are returned newest first.
func (h *ProgressHandler) StudentEntries(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.ledgerService.StudentEntries(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// GroupLeaderboard handles GET /api/groups/{id}/leaderboard requests.
func (h *ProgressHandler) GroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseIntParam(w, r, "id")
	if !ok {
		return
	}

	leaderboard, err := h.ledgerService.GroupLeaderboard(r.Context(), groupID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, leaderboard)
}

// GroupRollup handles GET /api/groups/{id}/rollup requests.
func (h *ProgressHandler) GroupRollup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseIntParam(w, r, "id")
	if !ok {
		return
	}

	rollup, err := h.ledgerService.GroupRollup(r.Context(), groupID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rollup)
}

// parseIntParam extracts and parses a positive integer route parameter,
// writing a 400 response when it is malformed.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return 0, false
	}
	return id, true
}
