package middleware

import (
	"net/http"
	"os"
	"strings"
)

// RequireAdminAuth validates env-based static token (ADMIN_TOKEN) only.
// Missing or mismatch -> 403. No role framework; single token for trusted
// internal staff operators.
func RequireAdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminToken := os.Getenv("ADMIN_TOKEN")
		if adminToken == "" {
			respondWithError(w, http.StatusForbidden, "Forbidden", "Staff access not configured")
			return
		}
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusForbidden, "Forbidden", "Authorization header required")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusForbidden, "Forbidden", "Invalid authorization format")
			return
		}
		if parts[1] != adminToken {
			respondWithError(w, http.StatusForbidden, "Forbidden", "Invalid staff token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
