package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

// AdminUserKey holds the authenticated admin username in the request context.
const AdminUserKey contextKey = "admin_user"

// TokenVerifier is implemented by the auth service.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RequireAdmin rejects requests without a valid Bearer token. There is no
// fallback path; the admin surface is not reachable without logging in.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			username, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AdminUserKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminUser returns the username RequireAdmin stored on the context.
func AdminUser(ctx context.Context) string {
	username, _ := ctx.Value(AdminUserKey).(string)
	return username
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
