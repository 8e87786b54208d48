package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/repository"
	"github.com/crazyplay/storefront-service/internal/service"
)

type SaveProductRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Price    string `json:"price" validate:"required"`
	IsActive bool   `json:"is_active"`
}

// CatalogResponse is the public storefront view: products plus the category's
// effective discount so the client can render strike-through prices.
type CatalogResponse struct {
	Products []models.Product          `json:"products"`
	Discount service.EffectiveDiscount `json:"discount"`
}

type CatalogHandler struct {
	repo      *repository.CatalogRepo
	discounts *service.DiscountService
}

func NewCatalogHandler(repo *repository.CatalogRepo, discounts *service.DiscountService) *CatalogHandler {
	return &CatalogHandler{repo: repo, discounts: discounts}
}

// ListPublic handles GET /packages and GET /courses.
func (h *CatalogHandler) ListPublic(kind models.OrderKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.repo.List(r.Context(), kind, true)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed_list_products")
			return
		}
		discount, err := h.discounts.Effective(r.Context(), kind.DiscountCategory())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed_read_discounts")
			return
		}
		writeJSON(w, http.StatusOK, CatalogResponse{Products: products, Discount: discount})
	}
}

// ListAdmin handles GET /admin/catalog/{kind} (inactive products included).
func (h *CatalogHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}

	products, err := h.repo.List(r.Context(), kind, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /admin/catalog/{kind}
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}
	p, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	p.ID = uuid.New()
	if err := h.repo.Create(r.Context(), kind, p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/catalog/{kind}/{id}
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	p, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	p.ID = id

	found, err := h.repo.Update(r.Context(), kind, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_update_product")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "product_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product_updated"})
}

// Delete handles DELETE /admin/catalog/{kind}/{id}
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	found, err := h.repo.Delete(r.Context(), kind, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_delete_product")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "product_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product_deleted"})
}

func (h *CatalogHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	var req SaveProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return nil, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_price")
		return nil, false
	}

	return &models.Product{
		Title:    req.Title,
		Price:    price,
		IsActive: req.IsActive,
	}, true
}
