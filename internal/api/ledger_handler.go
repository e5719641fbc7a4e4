package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/maktab/hifdh-api/internal/api/shared"
	"github.com/maktab/hifdh-api/internal/service"
)

// LedgerHandler handles the mutating ledger endpoints: recording,
// editing, and deleting memorized portions.
type LedgerHandler struct {
	ledgerService *service.LedgerService
	validator     *validator.Validate
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	if ledgerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledgerService cannot be nil")
	}
	return &LedgerHandler{
		ledgerService: ledgerService,
		validator:     validator.New(),
	}
}

// CreateEntry handles POST /api/students/{id}/entries requests.
func (h *LedgerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.ledgerService.AddPortion(
		r.Context(),
		studentID,
		req.SectionID,
		req.StartVerse,
		req.EndVerse,
		recordedAtOrNow(req.RecordedAt),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// CreateBulkEntries handles POST /api/students/{id}/entries/bulk requests.
// Each requested section succeeds or is skipped independently.
func (h *LedgerHandler) CreateBulkEntries(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req BulkSectionsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.ledgerService.AddFullSections(
		r.Context(),
		studentID,
		req.SectionIDs,
		recordedAtOrNow(req.RecordedAt),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusCreated
	if len(result.Inserted) == 0 {
		status = http.StatusOK
	}
	shared.RespondWithJSON(w, r, status, NewBulkAddResponse(result))
}

// UpdateEntry handles PUT /api/entries/{id} requests.
func (h *LedgerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var recordedAt time.Time
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	result, err := h.ledgerService.EditPortion(r.Context(), entryID, req.StartVerse, req.EndVerse, recordedAt)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// DeleteEntry handles DELETE /api/entries/{id} requests.
func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.ledgerService.DeletePortion(r.Context(), entryID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// DeleteBySections handles DELETE /api/students/{id}/entries requests,
// removing every entry of the student in the named sections.
func (h *LedgerHandler) DeleteBySections(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req BulkSectionsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.ledgerService.DeleteBySections(r.Context(), studentID, req.SectionIDs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// parseUUIDParam extracts and parses a UUID route parameter, writing a
// 400 response when it is malformed.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func recordedAtOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}
