// internal/api/handlers/auth.go
package handlers

import (
	"net/http"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/api/httpx"
	"github.com/baharkarakas/finance-tracker/internal/auth"
	"github.com/baharkarakas/finance-tracker/internal/middleware"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

type AuthHandler struct {
	Users  *services.UserService
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthHandler(users *services.UserService, tm *auth.TokenManager, appEnv string) *AuthHandler {
	return &AuthHandler{Users: users, TM: tm, AppEnv: appEnv}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResp struct {
	auth.Pair
	ExpiresIn int64 `json:"expires_in"` // access süresi, saniye
}

// setToken writes the access token cookie; an empty value clears it.
func (h *AuthHandler) setToken(w http.ResponseWriter, value string, expires time.Time) {
	c := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.AppEnv != "dev",
		SameSite: http.SameSiteStrictMode,
		Expires:  expires,
	}
	if value == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	http.SetCookie(w, c)
}

func (h *AuthHandler) issue(w http.ResponseWriter, userID string) {
	pair, err := h.TM.GeneratePair(userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	h.setToken(w, pair.AccessToken, pair.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		Pair:      pair,
		ExpiresIn: int64(time.Until(pair.ExpiresAt).Truncate(time.Second).Seconds()),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	h.issue(w, u.ID)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "refresh_token required", nil)
		return
	}
	claims, err := h.TM.ParseRefresh(req.RefreshToken)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "invalid refresh token", nil)
		return
	}
	h.issue(w, claims.UserID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setToken(w, "", time.Time{})
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
