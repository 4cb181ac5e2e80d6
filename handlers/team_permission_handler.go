package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jdl-league/constructor-system/middleware"
	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/services"
)

type TeamPermissionHandler struct {
	permissionService *services.TeamPermissionService
}

func NewTeamPermissionHandler(permissionService *services.TeamPermissionService) *TeamPermissionHandler {
	return &TeamPermissionHandler{permissionService: permissionService}
}

func (h *TeamPermissionHandler) AddPermission(w http.ResponseWriter, r *http.Request) {
	var input models.TeamPermissionCreate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	permission, err := h.permissionService.Add(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"permission": permission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamPermissionHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	permissionID := chi.URLParam(r, "permissionID")

	var input models.TeamPermissionUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	permission, err := h.permissionService.Update(r.Context(), currentUserID, permissionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"permission": permission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamPermissionHandler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	permissionID := chi.URLParam(r, "permissionID")

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.permissionService.Remove(r.Context(), currentUserID, permissionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamPermissionHandler) ListTeamPermissions(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	limit, offset := paginationParams(r)

	list, err := h.permissionService.ListByTeam(r.Context(), teamID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamPermissionHandler) ListTeamPermissionHistory(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	limit, offset := paginationParams(r)

	histories, total, err := h.permissionService.History(r.Context(), teamID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"histories": histories, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
