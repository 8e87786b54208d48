package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (string, error) {
	if token == "good-token" {
		return "admin", nil
	}
	return "", errors.New("invalid token")
}

func TestRequireAdmin(t *testing.T) {
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = AdminUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := RequireAdmin(stubVerifier{})(next)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/promos", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/promos", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes the username down", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/promos", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "admin", seenUser)
	})
}
