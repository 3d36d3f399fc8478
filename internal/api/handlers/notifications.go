package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/baharkarakas/finance-tracker/internal/api/httpx"
	"github.com/baharkarakas/finance-tracker/internal/models"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

type NotificationHandler struct {
	Feed *services.NotificationFeed
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Feed.List(r.Context(), uid(r), httpx.QueryInt(r, "limit", 50), httpx.QueryInt(r, "offset", 0))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// markReadReq: notificationIds is either a list of ids or the string "all".
type markReadReq struct {
	NotificationIDs json.RawMessage `json:"notificationIds"`
}

func (req markReadReq) selector() services.ReadSelector {
	var all string
	if err := json.Unmarshal(req.NotificationIDs, &all); err == nil {
		return services.ReadSelector{All: all == "all"}
	}
	var ids []string
	if err := json.Unmarshal(req.NotificationIDs, &ids); err == nil && ids != nil {
		return services.ReadSelector{IDs: ids}
	}
	return services.ReadSelector{}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	n, err := h.Feed.MarkRead(r.Context(), uid(r), req.selector())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "updated": n})
}

func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	n, err := h.Feed.UnreadCount(r.Context(), uid(r))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"unread": n})
}
