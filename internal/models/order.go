package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderKind string

const (
	OrderPackage OrderKind = "packages"
	OrderCourse  OrderKind = "courses"
)

func (k OrderKind) Scope() PromoScope {
	if k == OrderCourse {
		return ScopeCourses
	}
	return ScopePackages
}

func (k OrderKind) DiscountCategory() DiscountCategory {
	if k == OrderCourse {
		return DiscountCourses
	}
	return DiscountPackages
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DiscountKind records which discount path produced the stored price.
type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountFromPromo  DiscountKind = "promo"
	DiscountFromGlobal DiscountKind = "global"
)

// Order is a checkout record for either a package or a course; Kind selects
// the backing table. Price is the final charged amount and is immutable once
// written.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	Kind        OrderKind       `json:"kind"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	DiscordName string          `json:"discord_name"`
	Email       string          `json:"email"`
	Status      OrderStatus     `json:"status"`

	// discount provenance
	AppliedDiscountKind    DiscountKind `json:"applied_discount_kind"`
	AppliedDiscountPercent int          `json:"applied_discount_percent"`
	PromoCode              *string      `json:"promo_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
