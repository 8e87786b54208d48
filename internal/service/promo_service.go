package service

import (
	"context"
	"time"

	"github.com/crazyplay/storefront-service/internal/cache"
	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/promo"
)

// Repos required by the service (interfaces to allow mocking in tests).
type PromoRepo interface {
	FindActiveByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ConsumeUsage(ctx context.Context, code string) error
}

// PromoService fronts the evaluation engine with the store lookup and the
// read cache. Validation never mutates anything; only Consume does.
type PromoService struct {
	repo  PromoRepo
	cache *cache.PromoCache
	now   func() time.Time
}

func NewPromoService(repo PromoRepo, c *cache.PromoCache) *PromoService {
	return &PromoService{repo: repo, cache: c, now: time.Now}
}

// Validate checks a submitted code against a product scope. The reason for a
// rejection comes back in the result, not as an error; errors are store
// failures only.
func (s *PromoService) Validate(ctx context.Context, code string, scope models.PromoScope) (models.PromoValidation, error) {
	normalized := models.NormalizeCode(code)
	if normalized == "" || len(normalized) > 50 {
		return models.PromoValidation{Reason: promo.ReasonInvalidCode}, nil
	}

	pc, ok := s.cache.Get(normalized)
	if !ok {
		var err error
		pc, err = s.repo.FindActiveByCode(ctx, normalized)
		if err != nil {
			return models.PromoValidation{}, err
		}
		if pc != nil {
			s.cache.Set(normalized, pc)
		}
	}

	valid, reason := promo.Check(pc, scope, s.now())
	if !valid {
		return models.PromoValidation{Reason: reason}, nil
	}
	return models.PromoValidation{Valid: true, Discount: pc.DiscountPercentage}, nil
}

// Consume burns one use of the code. It goes straight to the store (never a
// cached snapshot) and relies on the repo's conditional update for the limit
// check, so concurrent checkouts can't overshoot usage_limit.
func (s *PromoService) Consume(ctx context.Context, code string) error {
	normalized := models.NormalizeCode(code)
	err := s.repo.ConsumeUsage(ctx, normalized)
	s.cache.Invalidate(normalized)
	return err
}

// InvalidateCached drops a code from the read cache after admin mutations.
func (s *PromoService) InvalidateCached(code string) {
	s.cache.Invalidate(models.NormalizeCode(code))
}
