package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid access token. The token
// is read from the accessToken cookie or the Authorization header.
func RequireAuth(tokens ports.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessTokenFrom(r)
			if token == "" {
				respondError(w, domain.ErrTokenInvalid)
				return
			}

			userID, err := tokens.VerifyAccess(token)
			if err != nil {
				respondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the viewer identity when a valid access token is
// present and lets anonymous requests through.
func OptionalAuth(tokens ports.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := accessTokenFrom(r); token != "" {
				if userID, err := tokens.VerifyAccess(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func userIDFrom(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
