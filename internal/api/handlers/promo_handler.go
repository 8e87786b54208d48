package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/repository"
	"github.com/crazyplay/storefront-service/internal/service"
)

// --- Request DTOs ---

type ValidatePromoRequest struct {
	Code  string `json:"code" validate:"required,max=50"`
	Scope string `json:"scope" validate:"required,oneof=packages courses"`
}

type SavePromoRequest struct {
	Code               string `json:"code" validate:"required,min=1,max=50"`
	DiscountPercentage int    `json:"discount_percentage" validate:"required,gte=1,lte=100"`
	IsActive           bool   `json:"is_active"`
	AppliesTo          string `json:"applies_to" validate:"required,oneof=all packages courses"`
	UsageLimit         *int   `json:"usage_limit" validate:"omitempty,gte=0"`
	ValidFrom          string `json:"valid_from,omitempty"`
	ValidUntil         string `json:"valid_until,omitempty"`
}

// PromoAdminRepo is the full promo store surface the admin endpoints need.
type PromoAdminRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error)
	List(ctx context.Context) ([]models.PromoCode, error)
	Create(ctx context.Context, pc *models.PromoCode) error
	Update(ctx context.Context, pc *models.PromoCode) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type PromoHandler struct {
	service *service.PromoService
	repo    PromoAdminRepo
}

func NewPromoHandler(svc *service.PromoService, repo PromoAdminRepo) *PromoHandler {
	return &PromoHandler{service: svc, repo: repo}
}

// Validate handles POST /promos/validate. Rejections come back 200 with
// valid=false and a reason; only store failures are 500.
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidatePromoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	result, err := h.service.Validate(r.Context(), req.Code, models.PromoScope(req.Scope))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// List handles GET /admin/promos
func (h *PromoHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_promos")
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

// Create handles POST /admin/promos
func (h *PromoHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, pc, ok := h.decodeSave(w, r)
	if !ok {
		return
	}

	pc.ID = uuid.New()
	if err := h.repo.Create(r.Context(), pc); err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			writeError(w, http.StatusConflict, "code_exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_create_promo")
		return
	}
	h.service.InvalidateCached(req.Code)
	writeJSON(w, http.StatusCreated, pc)
}

// Update handles PUT /admin/promos/{id}
func (h *PromoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	// the code may be renamed; the old spelling has to leave the cache too
	previous, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if previous == nil {
		writeError(w, http.StatusNotFound, "promo_not_found")
		return
	}

	req, pc, ok := h.decodeSave(w, r)
	if !ok {
		return
	}
	pc.ID = id

	found, err := h.repo.Update(r.Context(), pc)
	if err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			writeError(w, http.StatusConflict, "code_exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_update_promo")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "promo_not_found")
		return
	}

	h.service.InvalidateCached(previous.Code)
	h.service.InvalidateCached(req.Code)
	writeJSON(w, http.StatusOK, map[string]string{"message": "promo_updated"})
}

// Delete handles DELETE /admin/promos/{id}. The cache entry goes with it so
// in-flight validations fail closed.
func (h *PromoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	existing, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "promo_not_found")
		return
	}

	if _, err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_delete_promo")
		return
	}
	h.service.InvalidateCached(existing.Code)
	writeJSON(w, http.StatusOK, map[string]string{"message": "promo_deleted"})
}

func (h *PromoHandler) decodeSave(w http.ResponseWriter, r *http.Request) (*SavePromoRequest, *models.PromoCode, bool) {
	var req SavePromoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return nil, nil, false
	}

	validFrom, err := parseTimeOrEmpty(req.ValidFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid valid_from; use RFC3339")
		return nil, nil, false
	}
	validUntil, err := parseTimeOrEmpty(req.ValidUntil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid valid_until; use RFC3339")
		return nil, nil, false
	}

	return &req, &models.PromoCode{
		Code:               models.NormalizeCode(req.Code),
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           req.IsActive,
		AppliesTo:          models.PromoScope(req.AppliesTo),
		UsageLimit:         req.UsageLimit,
		ValidFrom:          validFrom,
		ValidUntil:         validUntil,
	}, true
}

var _ PromoAdminRepo = (*repository.PromoRepo)(nil)
