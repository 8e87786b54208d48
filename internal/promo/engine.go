package promo

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crazyplay/storefront-service/internal/models"
)

// Rejection reasons, in the order the rules are checked. A missing record and
// an inactive one both come back as ReasonInvalidCode: lookups filter on
// is_active, so a caller can't probe which codes exist.
const (
	ReasonInvalidCode   = "invalid_code"
	ReasonScopeMismatch = "scope_mismatch"
	ReasonLimitReached  = "usage_limit_reached"
	ReasonNotYetValid   = "not_yet_valid"
	ReasonExpired       = "expired"
)

// Check runs the usability rules for an already-fetched code against a product
// scope at time now. It never mutates anything; pc may be nil (fails closed).
func Check(pc *models.PromoCode, scope models.PromoScope, now time.Time) (bool, string) {
	if pc == nil || !pc.IsActive {
		return false, ReasonInvalidCode
	}
	if !pc.AppliesTo.Matches(scope) {
		return false, ReasonScopeMismatch
	}
	if pc.UsageLimit != nil && pc.TimesUsed >= *pc.UsageLimit {
		return false, ReasonLimitReached
	}
	if pc.ValidFrom != nil && now.Before(*pc.ValidFrom) {
		return false, ReasonNotYetValid
	}
	if pc.ValidUntil != nil && now.After(*pc.ValidUntil) {
		return false, ReasonExpired
	}
	return true, ""
}

// IsDiscountActive evaluates a category discount at read time. A stale
// isActive=true past EndDate still counts as inactive here; nothing flips the
// stored flag in the background.
func IsDiscountActive(s models.DiscountSettings, now time.Time) bool {
	if !s.IsActive || s.Percentage <= 0 {
		return false
	}
	if s.EndDate != nil && s.EndDate.Before(now) {
		return false
	}
	return true
}

var hundred = decimal.NewFromInt(100)

// ComputeFinalPrice returns what the customer actually pays. A promo code
// takes precedence and is never stacked onto the global discount.
//
// The promo path rounds to the nearest currency unit while the global path
// does not; stored order prices were written under exactly these rules, so
// both are kept as-is.
func ComputeFinalPrice(original decimal.Decimal, promoPercent int, globalActive bool, globalPercent int) decimal.Decimal {
	if promoPercent > 0 {
		return applyPercent(original, promoPercent).Round(0)
	}
	if globalActive && globalPercent > 0 {
		return applyPercent(original, globalPercent)
	}
	return original
}

func applyPercent(price decimal.Decimal, percent int) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(percent)))
	return price.Mul(factor).Div(hundred)
}
