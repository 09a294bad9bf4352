package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/reclaimed-storefront/pkg/auth"
)

const testSecret = "test-secret"

func token(t *testing.T, id string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Viewer{ID: id, Name: "Test"}, testSecret, ttl)
	require.NoError(t, err)
	return tok
}

func viewerEcho(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Viewer", auth.ViewerID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func newAuthenticator(t *testing.T, adminID string) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(testSecret, adminID)
	require.NoError(t, err)
	return a
}

func TestNewAuthenticatorRequiresSecret(t *testing.T) {
	a, err := NewAuthenticator("", "admin_1")
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
	assert.Nil(t, a)
}

func TestRequireAuth(t *testing.T) {
	a := newAuthenticator(t, "admin_1")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantViewer string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + token(t, "user_1", -time.Minute), http.StatusUnauthorized, ""},
		{"valid", "Bearer " + token(t, "user_1", time.Hour), http.StatusNoContent, "user_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			a.RequireAuth(viewerEcho)(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantViewer, rec.Header().Get("X-Viewer"))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	a := newAuthenticator(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	a.OptionalAuth(viewerEcho)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Viewer"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	a.OptionalAuth(viewerEcho)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Viewer"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "user_7", time.Hour))
	rec = httptest.NewRecorder()
	a.OptionalAuth(viewerEcho)(rec, req)
	assert.Equal(t, "user_7", rec.Header().Get("X-Viewer"))
}

func TestRequireAdmin(t *testing.T) {
	a := newAuthenticator(t, "admin_1")

	tests := []struct {
		name       string
		viewer     string
		wantStatus int
	}{
		{"admin", "admin_1", http.StatusNoContent},
		{"regular viewer", "user_1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tt.viewer, time.Hour))
			rec := httptest.NewRecorder()
			a.RequireAdmin(viewerEcho)(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// no admin configured means nobody is admin
	none := newAuthenticator(t, "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "admin_1", time.Hour))
	rec := httptest.NewRecorder()
	none.RequireAdmin(viewerEcho)(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, "test", 2, time.Minute)
	handler := limiter.Limit(viewerEcho)

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1234").Code)
	second := call("10.0.0.1:1234")
	assert.Equal(t, http.StatusNoContent, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := call("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1234").Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *RateLimiter
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	nilLimiter.Limit(viewerEcho)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	NewRateLimiter(nil, "test", 1, time.Minute).Limit(viewerEcho)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
