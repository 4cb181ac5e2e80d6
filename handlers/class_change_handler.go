package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jdl-league/constructor-system/middleware"
	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/services"
)

type ClassChangeHandler struct {
	classChangeService *services.ClassChangeService
}

func NewClassChangeHandler(classChangeService *services.ClassChangeService) *ClassChangeHandler {
	return &ClassChangeHandler{classChangeService: classChangeService}
}

func (h *ClassChangeHandler) RequestClassChange(w http.ResponseWriter, r *http.Request) {
	var input models.ClassChangeRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	history, err := h.classChangeService.Request(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"class_change": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApproveClassChange доступен только администраторам (маршрут защищён
// RequireAdmin).
func (h *ClassChangeHandler) ApproveClassChange(w http.ResponseWriter, r *http.Request) {
	historyID := chi.URLParam(r, "historyID")

	var input models.ClassChangeApproval
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	history, err := h.classChangeService.Approve(r.Context(), currentUserID, historyID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"class_change": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ClassChangeHandler) ListPlayerClassChanges(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	limit, offset := paginationParams(r)

	histories, err := h.classChangeService.ListByPlayer(r.Context(), playerID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"class_changes": histories}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
