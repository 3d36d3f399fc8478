package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/finance-tracker/internal/api/httpx"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

type ExpenseHandler struct {
	Expenses *services.ExpenseService
}

// List accepts an optional ?budget_id= filter.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Expenses.List(r.Context(), uid(r), r.URL.Query().Get("budget_id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Expense{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NewExpense
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	e, err := h.Expenses.Create(r.Context(), in, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, e)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Expenses.Get(r.Context(), chi.URLParam(r, "id"), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.ExpensePatch
	if !httpx.DecodeJSON(w, r, &patch) {
		return
	}
	e, err := h.Expenses.Update(r.Context(), chi.URLParam(r, "id"), patch, uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Expenses.Delete(r.Context(), chi.URLParam(r, "id"), uid(r)); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}
