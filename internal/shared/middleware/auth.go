package middleware

import (
	"context"
	"net/http"
	"strings"

	"centavo/internal/shared/auth"
)

type contextKey string

// UserIDKey is the context key under which Auth stores the
// authenticated user's id.
const UserIDKey contextKey = "userID"

// Auth authenticates requests with an access token, taken from the
// Authorization bearer header or the access_token cookie. Refresh
// tokens are rejected here: they are only good at the refresh endpoint.
func Auth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, "missing authentication token", http.StatusUnauthorized)
				return
			}

			userID, err := issuer.VerifyAccess(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id set by Auth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
