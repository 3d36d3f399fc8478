package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baharkarakas/finance-tracker/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	_, _ = w.Write([]byte(uid))
}

func TestAuthSources(t *testing.T) {
	tm := auth.NewTokenManager("a", "r", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("u42")
	require.NoError(t, err)

	h := NewAuthMiddleware(tm, "dev").Auth(http.HandlerFunc(echoUser))
	prod := NewAuthMiddleware(tm, "prod").Auth(http.HandlerFunc(echoUser))

	cases := []struct {
		name    string
		handler http.Handler
		setup   func(r *http.Request)
		code    int
		body    string
	}{
		{"bearer", h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) }, 200, "u42"},
		{"cookie", h, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: pair.AccessToken}) }, 200, "u42"},
		{"dev token", h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer dev-u7") }, 200, "u7"},
		{"dev token outside dev", prod, func(r *http.Request) { r.Header.Set("Authorization", "Bearer dev-u7") }, 401, ""},
		{"refresh token", h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) }, 401, ""},
		{"missing", h, func(r *http.Request) {}, 401, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rr := httptest.NewRecorder()
			tc.handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.code, rr.Code)
			if tc.code == 200 {
				assert.Equal(t, tc.body, rr.Body.String())
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get("X-Request-Id"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rr.Header().Get("X-Request-Id"), 36)
}

func TestRecoverAnswers500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_error")
}

func TestTokenBucket(t *testing.T) {
	now := time.Unix(0, 0)
	tb := newTokenBucket(2, 2, func() time.Time { return now })

	ok, _ := tb.take()
	assert.True(t, ok)
	ok, _ = tb.take()
	assert.True(t, ok)
	ok, wait := tb.take()
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	now = now.Add(time.Second)
	ok, _ = tb.take()
	assert.True(t, ok)
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
