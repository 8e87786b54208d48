package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/promo"
)

var ErrProductNotFound = errors.New("product_not_found")

// PromoRejectedError carries the engine's rejection reason up to the handler;
// the checkout as a whole fails and the form stays editable.
type PromoRejectedError struct {
	Reason string
}

func (e *PromoRejectedError) Error() string { return e.Reason }

type CatalogRepo interface {
	Find(ctx context.Context, kind models.OrderKind, id uuid.UUID) (*models.Product, error)
}

type OrderWriter interface {
	Insert(ctx context.Context, o *models.Order) error
}

type SettingsReader interface {
	GetDiscount(ctx context.Context, category models.DiscountCategory) (models.DiscountSettings, error)
}

type CheckoutInput struct {
	Kind        models.OrderKind
	ProductID   uuid.UUID
	DiscordName string
	Email       string
	PromoCode   string
}

// CheckoutService owns order intake: it re-derives the final price on the
// server from the catalog price, the submitted promo code and the category
// discount, persists the order, and then burns the promo use.
type CheckoutService struct {
	promos   *PromoService
	catalog  CatalogRepo
	orders   OrderWriter
	settings SettingsReader
	now      func() time.Time
}

func NewCheckoutService(promos *PromoService, catalog CatalogRepo, orders OrderWriter, settings SettingsReader) *CheckoutService {
	return &CheckoutService{
		promos:   promos,
		catalog:  catalog,
		orders:   orders,
		settings: settings,
		now:      time.Now,
	}
}

// PlaceOrder runs one checkout attempt. Ordering is deliberate: the order row
// is written first, and the promo use is consumed only after that write
// succeeded. A consume failure after a persisted order is logged and
// swallowed; the order stands.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	product, err := s.catalog.Find(ctx, in.Kind, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	promoPercent := 0
	var appliedCode *string
	if in.PromoCode != "" {
		result, err := s.promos.Validate(ctx, in.PromoCode, in.Kind.Scope())
		if err != nil {
			return nil, fmt.Errorf("validate promo: %w", err)
		}
		if !result.Valid {
			return nil, &PromoRejectedError{Reason: result.Reason}
		}
		promoPercent = result.Discount
		code := models.NormalizeCode(in.PromoCode)
		appliedCode = &code
	}

	settings, err := s.settings.GetDiscount(ctx, in.Kind.DiscountCategory())
	if err != nil {
		return nil, fmt.Errorf("read discount settings: %w", err)
	}
	globalActive := promo.IsDiscountActive(settings, s.now())

	order := &models.Order{
		ID:          uuid.New(),
		Kind:        in.Kind,
		ProductID:   &product.ID,
		ProductName: product.Title,
		Price:       promo.ComputeFinalPrice(product.Price, promoPercent, globalActive, settings.Percentage),
		DiscordName: in.DiscordName,
		Email:       in.Email,
		Status:      models.StatusPending,
		PromoCode:   appliedCode,
	}
	switch {
	case promoPercent > 0:
		order.AppliedDiscountKind = models.DiscountFromPromo
		order.AppliedDiscountPercent = promoPercent
	case globalActive:
		order.AppliedDiscountKind = models.DiscountFromGlobal
		order.AppliedDiscountPercent = settings.Percentage
	default:
		order.AppliedDiscountKind = models.DiscountNone
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if appliedCode != nil {
		if err := s.promos.Consume(ctx, *appliedCode); err != nil {
			log.Printf("order %s: consume promo %s: %v", order.ID, *appliedCode, err)
		}
	}

	return order, nil
}
