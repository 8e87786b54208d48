package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PromoScope string

const (
	ScopeAll      PromoScope = "all"
	ScopePackages PromoScope = "packages"
	ScopeCourses  PromoScope = "courses"
)

// Matches returns whether the code's scope covers the given product scope.
func (s PromoScope) Matches(scope PromoScope) bool {
	return s == ScopeAll || s == scope
}

type PromoCode struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	DiscountPercentage int        `json:"discount_percentage"`
	IsActive           bool       `json:"is_active"`
	AppliesTo          PromoScope `json:"applies_to"`
	UsageLimit         *int       `json:"usage_limit"`
	TimesUsed          int        `json:"times_used"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
