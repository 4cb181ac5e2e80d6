package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/services"
)

type SystemSettingHandler struct {
	settingService *services.SystemSettingService
}

func NewSystemSettingHandler(settingService *services.SystemSettingService) *SystemSettingHandler {
	return &SystemSettingHandler{settingService: settingService}
}

func (h *SystemSettingHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	var input models.SystemSettingCreate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	setting, err := h.settingService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SystemSettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SystemSettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingService.GetAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"settings": settings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SystemSettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var input models.SystemSettingUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	setting, err := h.settingService.Update(r.Context(), key, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SystemSettingHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.settingService.Delete(r.Context(), key); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
