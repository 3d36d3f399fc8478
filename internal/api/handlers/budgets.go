package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/finance-tracker/internal/api/httpx"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	Repair  *services.RepairService
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Budgets.List(r.Context(), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Budget{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NewBudget
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	b, err := h.Budgets.Create(r.Context(), in, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Budgets.Get(r.Context(), chi.URLParam(r, "id"), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.BudgetPatch
	if !httpx.DecodeJSON(w, r, &patch) {
		return
	}
	b, err := h.Budgets.Update(r.Context(), chi.URLParam(r, "id"), patch, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Budgets.Delete(r.Context(), chi.URLParam(r, "id"), uid(r)); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted successfully"})
}

func (h *BudgetHandler) RepairOne(w http.ResponseWriter, r *http.Request) {
	res, err := h.Repair.RepairBudget(r.Context(), chi.URLParam(r, "id"), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
