package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/maktab/hifdh-api/internal/api/shared"
	"github.com/maktab/hifdh-api/internal/service"
	"github.com/maktab/hifdh-api/internal/store"
)

// RosterHandler handles student and group management endpoints.
type RosterHandler struct {
	rosterService *service.RosterService
	validator     *validator.Validate
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	if rosterService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("rosterService cannot be nil")
	}
	return &RosterHandler{
		rosterService: rosterService,
		validator:     validator.New(),
	}
}

// ListGroups handles GET /api/groups requests.
func (h *RosterHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.rosterService.ListGroups(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// ListStudents handles GET /api/students requests. Supports optional
// group_id and search query parameters.
func (h *RosterHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	filter := store.StudentFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		groupID, err := strconv.Atoi(raw)
		if err != nil || groupID <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid group_id parameter")
			return
		}
		filter.GroupID = &groupID
	}

	students, err := h.rosterService.ListStudents(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, students)
}

// GetStudent handles GET /api/students/{id} requests.
func (h *RosterHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	student, err := h.rosterService.GetStudent(r.Context(), studentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, student)
}

// CreateStudent handles POST /api/students requests.
func (h *RosterHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.rosterService.CreateStudent(r.Context(), req.FullName, req.GroupID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, student)
}

// UpdateStudent handles PUT /api/students/{id} requests.
func (h *RosterHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	student, err := h.rosterService.UpdateStudent(r.Context(), studentID, req.FullName, req.GroupID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/students/{id} requests.
func (h *RosterHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.rosterService.DeleteStudent(r.Context(), studentID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
