package service

import (
	"context"
	"errors"
	"time"

	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/promo"
)

var ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")

type SettingsRepo interface {
	GetDiscount(ctx context.Context, category models.DiscountCategory) (models.DiscountSettings, error)
	SaveDiscount(ctx context.Context, category models.DiscountCategory, s models.DiscountSettings) error
}

// EffectiveDiscount pairs the stored settings with the read-time activity
// decision, so clients never have to re-derive expiry themselves.
type EffectiveDiscount struct {
	models.DiscountSettings
	Active bool `json:"active"`
}

type DiscountService struct {
	settings SettingsRepo
	now      func() time.Time
}

func NewDiscountService(settings SettingsRepo) *DiscountService {
	return &DiscountService{settings: settings, now: time.Now}
}

func (s *DiscountService) Effective(ctx context.Context, category models.DiscountCategory) (EffectiveDiscount, error) {
	stored, err := s.settings.GetDiscount(ctx, category)
	if err != nil {
		return EffectiveDiscount{}, err
	}
	return EffectiveDiscount{
		DiscountSettings: stored,
		Active:           promo.IsDiscountActive(stored, s.now()),
	}, nil
}

func (s *DiscountService) Save(ctx context.Context, category models.DiscountCategory, settings models.DiscountSettings) error {
	if settings.Percentage < 0 || settings.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return s.settings.SaveDiscount(ctx, category, settings)
}
