package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"farmassist/pkg/logging"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// UserFromContext returns the authenticated user's claims, if any
func UserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	return claims, ok
}

// Middleware returns a mux middleware that requires a valid Bearer token and
// stores its claims on the request context
func Middleware(manager *TokenManager, logger *logging.StructuredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := manager.Verify(token)
			if err != nil {
				logger.Debug(r.Context(), "[AUTH_REJECTED] Token verification failed", logging.Fields{
					"path": r.URL.Path,
				})
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "unauthorized",
		"message": message,
	})
}
