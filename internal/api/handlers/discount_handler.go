package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/service"
)

type SaveDiscountRequest struct {
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
	IsActive   bool   `json:"is_active"`
	EndDate    string `json:"end_date,omitempty"`
}

type DiscountHandler struct {
	service *service.DiscountService
}

func NewDiscountHandler(svc *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: svc}
}

// GetAll handles GET /discounts — the storefront reads both categories at
// once to render strike-through pricing and the countdown banner.
func (h *DiscountHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.Effective(r.Context(), models.DiscountPackages)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_read_discounts")
		return
	}
	courses, err := h.service.Effective(r.Context(), models.DiscountCourses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_read_discounts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]service.EffectiveDiscount{
		"packages": packages,
		"courses":  courses,
	})
}

// Save handles PUT /admin/discounts/{category}
func (h *DiscountHandler) Save(w http.ResponseWriter, r *http.Request) {
	var category models.DiscountCategory
	switch chi.URLParam(r, "category") {
	case "packages":
		category = models.DiscountPackages
	case "courses":
		category = models.DiscountCourses
	default:
		writeError(w, http.StatusBadRequest, "invalid_category")
		return
	}

	var req SaveDiscountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	endDate, err := parseTimeOrEmpty(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date; use RFC3339")
		return
	}

	settings := models.DiscountSettings{
		Percentage: req.Percentage,
		IsActive:   req.IsActive,
		EndDate:    endDate,
	}
	if err := h.service.Save(r.Context(), category, settings); err != nil {
		if errors.Is(err, service.ErrInvalidPercentage) {
			writeError(w, http.StatusBadRequest, "invalid_percentage")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_save_discount")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "discount_saved"})
}
