package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/finance-tracker/internal/api/httpx"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

type AlertHandler struct {
	Alerts *services.AlertService
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Alerts.List(r.Context(), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Alert{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NewAlert
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	a, err := h.Alerts.Create(r.Context(), in, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Alerts.Get(r.Context(), chi.URLParam(r, "id"), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.AlertPatch
	if !httpx.DecodeJSON(w, r, &patch) {
		return
	}
	a, err := h.Alerts.Update(r.Context(), chi.URLParam(r, "id"), patch, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Alerts.Delete(r.Context(), chi.URLParam(r, "id"), uid(r)); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Alert deleted successfully"})
}
