package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazyplay/storefront-service/internal/cache"
	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/repository"
	"github.com/crazyplay/storefront-service/internal/service"
)

type stubPromoRepo struct {
	codes map[string]*models.PromoCode
}

func (s *stubPromoRepo) FindActiveByCode(_ context.Context, code string) (*models.PromoCode, error) {
	pc := s.codes[code]
	if pc == nil || !pc.IsActive {
		return nil, nil
	}
	return pc, nil
}

func (s *stubPromoRepo) ConsumeUsage(_ context.Context, code string) error { return nil }

func validateRouter() http.Handler {
	repo := &stubPromoRepo{codes: map[string]*models.PromoCode{
		"SUMMER20": {
			Code:               "SUMMER20",
			DiscountPercentage: 20,
			IsActive:           true,
			AppliesTo:          models.ScopeCourses,
		},
	}}
	svc := service.NewPromoService(repo, cache.NewPromoCache(16, time.Minute))
	h := NewPromoHandler(svc, nil)

	r := chi.NewRouter()
	r.Post("/promos/validate", h.Validate)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type stubAdminRepo struct {
	createErr error
	updateErr error
	existing  *models.PromoCode
}

func (s *stubAdminRepo) FindByID(context.Context, uuid.UUID) (*models.PromoCode, error) {
	return s.existing, nil
}
func (s *stubAdminRepo) List(context.Context) ([]models.PromoCode, error) { return nil, nil }
func (s *stubAdminRepo) Create(context.Context, *models.PromoCode) error  { return s.createErr }
func (s *stubAdminRepo) Update(context.Context, *models.PromoCode) (bool, error) {
	return s.updateErr == nil, s.updateErr
}
func (s *stubAdminRepo) Delete(context.Context, uuid.UUID) (bool, error) { return true, nil }

func TestCreatePromoDuplicateCode(t *testing.T) {
	svc := service.NewPromoService(&stubPromoRepo{}, cache.NewPromoCache(16, time.Minute))
	h := NewPromoHandler(svc, &stubAdminRepo{createErr: repository.ErrCodeExists})

	r := chi.NewRouter()
	r.Post("/admin/promos", h.Create)

	rec := postJSON(t, r, "/admin/promos", `{"code":"SUMMER20","discount_percentage":20,"is_active":true,"applies_to":"courses"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"code_exists"}`, rec.Body.String())
}

func TestUpdatePromoDuplicateCode(t *testing.T) {
	id := uuid.New()
	svc := service.NewPromoService(&stubPromoRepo{}, cache.NewPromoCache(16, time.Minute))
	h := NewPromoHandler(svc, &stubAdminRepo{
		existing:  &models.PromoCode{ID: id, Code: "OLD10"},
		updateErr: repository.ErrCodeExists,
	})

	r := chi.NewRouter()
	r.Put("/admin/promos/{id}", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/admin/promos/"+id.String(),
		strings.NewReader(`{"code":"SUMMER20","discount_percentage":10,"is_active":true,"applies_to":"all"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"code_exists"}`, rec.Body.String())
}

func TestValidateEndpoint(t *testing.T) {
	router := validateRouter()

	t.Run("valid code", func(t *testing.T) {
		rec := postJSON(t, router, "/promos/validate", `{"code":" summer20 ","scope":"courses"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":true,"discount":20}`, rec.Body.String())
	})

	t.Run("scope mismatch surfaces a reason, not an error", func(t *testing.T) {
		rec := postJSON(t, router, "/promos/validate", `{"code":"SUMMER20","scope":"packages"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":false,"reason":"scope_mismatch"}`, rec.Body.String())
	})

	t.Run("unknown code", func(t *testing.T) {
		rec := postJSON(t, router, "/promos/validate", `{"code":"NOPE","scope":"courses"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":false,"reason":"invalid_code"}`, rec.Body.String())
	})

	t.Run("bad scope rejected by validation", func(t *testing.T) {
		rec := postJSON(t, router, "/promos/validate", `{"code":"SUMMER20","scope":"everything"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := postJSON(t, router, "/promos/validate", `{"code":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
