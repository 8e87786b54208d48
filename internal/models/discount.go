package models

import "time"

type DiscountCategory string

const (
	DiscountPackages DiscountCategory = "packages"
	DiscountCourses  DiscountCategory = "courses"
)

// SettingKey is the site_settings row key for this category.
func (c DiscountCategory) SettingKey() string {
	return "discount_" + string(c)
}

// Scope maps the category onto the promo scope it competes with.
func (c DiscountCategory) Scope() PromoScope {
	if c == DiscountCourses {
		return ScopeCourses
	}
	return ScopePackages
}

// DiscountSettings is the stored shape of a category-wide discount.
// Field names follow the persisted jsonb value.
type DiscountSettings struct {
	Percentage int        `json:"percentage"`
	IsActive   bool       `json:"isActive"`
	EndDate    *time.Time `json:"endDate"`
}
