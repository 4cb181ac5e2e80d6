package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jdl-league/constructor-system/services"
)

type AdminHandler struct {
	adminService     *services.AdminService
	integrityService *services.DataIntegrityService
}

func NewAdminHandler(adminService *services.AdminService, integrityService *services.DataIntegrityService) *AdminHandler {
	return &AdminHandler{adminService: adminService, integrityService: integrityService}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.adminService.Dashboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": counts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	list, err := h.adminService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminService.SetAdmin(r.Context(), userID, input.IsAdmin)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) SetLocked(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var input struct {
		IsLocked bool `json:"is_locked"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminService.SetLocked(r.Context(), userID, input.IsLocked)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RunIntegrityCheck запускает полную проверку целостности данных.
func (h *AdminHandler) RunIntegrityCheck(w http.ResponseWriter, r *http.Request) {
	report := h.integrityService.RunAllChecks(r.Context())

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
