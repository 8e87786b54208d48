package promo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazyplay/storefront-service/internal/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeCode(mutate func(*models.PromoCode)) *models.PromoCode {
	pc := &models.PromoCode{
		Code:               "SUMMER20",
		DiscountPercentage: 20,
		IsActive:           true,
		AppliesTo:          models.ScopeAll,
	}
	if mutate != nil {
		mutate(pc)
	}
	return pc
}

func TestCheck(t *testing.T) {
	limit := func(n int) *int { return &n }
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		pc     *models.PromoCode
		scope  models.PromoScope
		valid  bool
		reason string
	}{
		{"missing record fails closed", nil, models.ScopeCourses, false, ReasonInvalidCode},
		{"inactive looks like missing", activeCode(func(pc *models.PromoCode) { pc.IsActive = false }), models.ScopeCourses, false, ReasonInvalidCode},
		{"all scope matches courses", activeCode(nil), models.ScopeCourses, true, ""},
		{"all scope matches packages", activeCode(nil), models.ScopePackages, true, ""},
		{"courses code rejected for packages", activeCode(func(pc *models.PromoCode) { pc.AppliesTo = models.ScopeCourses }), models.ScopePackages, false, ReasonScopeMismatch},
		{"packages code rejected for courses", activeCode(func(pc *models.PromoCode) { pc.AppliesTo = models.ScopePackages }), models.ScopeCourses, false, ReasonScopeMismatch},
		{"zero usage limit is never usable", activeCode(func(pc *models.PromoCode) { pc.UsageLimit = limit(0) }), models.ScopeCourses, false, ReasonLimitReached},
		{"limit reached", activeCode(func(pc *models.PromoCode) { pc.UsageLimit = limit(100); pc.TimesUsed = 100 }), models.ScopeCourses, false, ReasonLimitReached},
		{"one use left", activeCode(func(pc *models.PromoCode) { pc.UsageLimit = limit(100); pc.TimesUsed = 99 }), models.ScopeCourses, true, ""},
		{"nil limit is unlimited", activeCode(func(pc *models.PromoCode) { pc.TimesUsed = 1 << 20 }), models.ScopeCourses, true, ""},
		{"not yet valid", activeCode(func(pc *models.PromoCode) { pc.ValidFrom = &future }), models.ScopeCourses, false, ReasonNotYetValid},
		{"expired even while active", activeCode(func(pc *models.PromoCode) { pc.ValidUntil = &past }), models.ScopeCourses, false, ReasonExpired},
		{"inside window", activeCode(func(pc *models.PromoCode) { pc.ValidFrom = &past; pc.ValidUntil = &future }), models.ScopeCourses, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := Check(tt.pc, tt.scope, now)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestIsDiscountActive(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		settings models.DiscountSettings
		want     bool
	}{
		{"inactive flag", models.DiscountSettings{Percentage: 15, IsActive: false}, false},
		{"zero percentage", models.DiscountSettings{Percentage: 0, IsActive: true}, false},
		{"no end date runs indefinitely", models.DiscountSettings{Percentage: 15, IsActive: true}, true},
		{"future end date", models.DiscountSettings{Percentage: 15, IsActive: true, EndDate: &future}, true},
		{"stale isActive past end date", models.DiscountSettings{Percentage: 15, IsActive: true, EndDate: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiscountActive(tt.settings, now))
		})
	}
}

func TestComputeFinalPrice(t *testing.T) {
	price := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return d
	}

	t.Run("promo path rounds to nearest unit", func(t *testing.T) {
		got := ComputeFinalPrice(price("500"), 20, false, 0)
		assert.True(t, got.Equal(price("400")), "got %s", got)

		// 99 * 0.67 = 66.33 -> 66
		got = ComputeFinalPrice(price("99"), 33, false, 0)
		assert.True(t, got.Equal(price("66")), "got %s", got)

		// half rounds up, like the storefront always did
		got = ComputeFinalPrice(price("5"), 50, false, 0)
		assert.True(t, got.Equal(price("3")), "got %s", got)
	})

	t.Run("global path stays unrounded", func(t *testing.T) {
		got := ComputeFinalPrice(price("300"), 0, true, 15)
		assert.True(t, got.Equal(price("255")), "got %s", got)

		got = ComputeFinalPrice(price("99"), 0, true, 33)
		assert.True(t, got.Equal(price("66.33")), "got %s", got)
	})

	t.Run("promo wins over global, never stacked", func(t *testing.T) {
		got := ComputeFinalPrice(price("500"), 20, true, 50)
		assert.True(t, got.Equal(price("400")), "got %s", got)
	})

	t.Run("no discount passes the price through", func(t *testing.T) {
		got := ComputeFinalPrice(price("123.45"), 0, false, 15)
		assert.True(t, got.Equal(price("123.45")), "got %s", got)
	})

	t.Run("result never exceeds the original", func(t *testing.T) {
		original := price("777")
		for p := 1; p <= 100; p++ {
			got := ComputeFinalPrice(original, p, false, 0)
			assert.True(t, got.LessThanOrEqual(original), "percent %d gave %s", p, got)
			assert.True(t, got.GreaterThanOrEqual(decimal.Zero), "percent %d gave %s", p, got)
		}
	})
}
