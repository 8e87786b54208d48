package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/service"
)

type PlaceOrderRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid4"`
	DiscordName string `json:"discord_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PromoCode   string `json:"promo_code,omitempty" validate:"omitempty,max=50"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

type OrderReader interface {
	List(ctx context.Context, kind models.OrderKind) ([]models.Order, error)
	ListByEmail(ctx context.Context, kind models.OrderKind, email string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, kind models.OrderKind, id uuid.UUID, status models.OrderStatus) (bool, error)
	Delete(ctx context.Context, kind models.OrderKind, id uuid.UUID) (bool, error)
}

type OrderHandler struct {
	checkout *service.CheckoutService
	orders   OrderReader
}

func NewOrderHandler(checkout *service.CheckoutService, orders OrderReader) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

// Place handles POST /orders/{kind}
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}

	var req PlaceOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), service.CheckoutInput{
		Kind:        kind,
		ProductID:   productID,
		DiscordName: strings.TrimSpace(req.DiscordName),
		Email:       strings.TrimSpace(req.Email),
		PromoCode:   req.PromoCode,
	})
	if err != nil {
		var rejected *service.PromoRejectedError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product_not_found")
		case errors.As(err, &rejected):
			writeError(w, http.StatusUnprocessableEntity, rejected.Reason)
		default:
			writeError(w, http.StatusInternalServerError, "failed_place_order")
		}
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Lookup handles GET /orders/lookup?email= — a customer's orders of both
// kinds, used by the support banner to find its threads.
func (h *OrderHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}

	packages, err := h.orders.ListByEmail(r.Context(), models.OrderPackage, email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_orders")
		return
	}
	courses, err := h.orders.ListByEmail(r.Context(), models.OrderCourse, email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Order{
		"packages": packages,
		"courses":  courses,
	})
}

// List handles GET /admin/orders/{kind}
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind")
		return
	}

	orders, err := h.orders.List(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /admin/orders/{kind}/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateOrderStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	found, err := h.orders.UpdateStatus(r.Context(), kind, id, models.OrderStatus(req.Status))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_update_order")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order_updated"})
}

// Delete handles DELETE /admin/orders/{kind}/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	found, err := h.orders.Delete(r.Context(), kind, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_delete_order")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order_deleted"})
}
