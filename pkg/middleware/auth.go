package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// Authenticator verifies identity provider session tokens and guards routes
type Authenticator struct {
	secret  string
	adminID string
}

// NewAuthenticator fails with auth.ErrMissingSecret when secret is empty
func NewAuthenticator(secret, adminID string) (*Authenticator, error) {
	if secret == "" {
		return nil, auth.ErrMissingSecret
	}
	return &Authenticator{secret: secret, adminID: adminID}, nil
}

// RequireAuth rejects requests without a valid bearer token
func (a *Authenticator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			logger.Warn(r.Context()).Str("path", r.URL.Path).Msg("Missing authorization header")
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		viewer, err := auth.ValidateToken(token, a.secret)
		if err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Invalid token")
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token expired"
			}
			respondError(w, http.StatusUnauthorized, message)
			return
		}

		next.ServeHTTP(w, r.WithContext(withViewer(r, *viewer)))
	}
}

// OptionalAuth identifies the viewer when a valid token is present and otherwise
// serves the request anonymously
func (a *Authenticator) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := auth.BearerToken(r.Header.Get("Authorization")); ok {
			viewer, err := auth.ValidateToken(token, a.secret)
			if err == nil {
				r = r.WithContext(withViewer(r, *viewer))
			} else {
				logger.Debug(r.Context()).Err(err).Msg("Optional auth: token ignored")
			}
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin allows only the configured admin identity
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context(), a.adminID) {
			logger.Warn(r.Context()).Msg("Admin access denied")
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withViewer(r *http.Request, viewer auth.Viewer) context.Context {
	ctx := auth.WithViewer(r.Context(), viewer)
	return logger.ContextWithViewer(ctx, viewer.ID)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
