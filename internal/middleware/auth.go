package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/homehub/internal/auth"
	"github.com/dukerupert/homehub/internal/model"
	"github.com/dukerupert/homehub/internal/service"
)

const SessionCookieName = "homehub_session"

// Authenticator resolves a session token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// HouseholdResolver returns the household the user belongs to, creating one
// if needed.
type HouseholdResolver interface {
	EnsureHousehold(ctx context.Context, userID string) (*service.Resolution, error)
}

// TokenFromRequest reads the session token from the session cookie or an
// "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// RequireAuth validates the session token and populates AuthContext.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			sess, err := authn.Authenticate(r.Context(), token)
			if errors.Is(err, service.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "session expired or invalid")
				return
			}
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, "backend unavailable")
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{
				UserID:    sess.UserID,
				SessionID: sess.ID,
				Token:     token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveHousehold attaches the caller's household to AuthContext. It must
// run after RequireAuth.
func ResolveHousehold(resolver HouseholdResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := auth.UserID(r.Context())
			if userID == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			res, err := resolver.EnsureHousehold(r.Context(), userID)
			switch {
			case errors.Is(err, service.ErrNotFound):
				writeError(w, http.StatusUnauthorized, "profile not found")
				return
			case err != nil:
				writeError(w, http.StatusServiceUnavailable, "backend unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithHouseholdID(r.Context(), res.Household.ID)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
