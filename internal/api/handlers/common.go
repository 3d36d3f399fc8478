package handlers

import (
	"net/http"

	"github.com/baharkarakas/finance-tracker/internal/middleware"
)

// uid returns the caller; services reject an empty id as unauthenticated.
func uid(r *http.Request) string {
	id, _ := middleware.UserID(r.Context())
	return id
}
