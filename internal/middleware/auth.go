package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medirec/medirec-backend/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFrom returns the authenticated user id bound by RequireAuth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value, or "" when the header is missing or malformed.
func extractBearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token and binds the resolved user id into
// the request context. Any failure short-circuits with 401; the wrapped
// handler never runs. Write handlers must take the owner id from the context
// only, never from the request body.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "Authentication required")
				return
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				if err == auth.ErrTokenExpired {
					unauthorized(w, "Token expired")
					return
				}
				unauthorized(w, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
