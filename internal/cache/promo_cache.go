package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/crazyplay/storefront-service/internal/models"
)

// PromoCache keeps recently validated promo codes keyed by normalized code.
// Entries expire on their own so a code deleted or edited elsewhere can only
// be served stale for at most the TTL; mutations through this process call
// Invalidate explicitly.
type PromoCache struct {
	lru *expirable.LRU[string, *models.PromoCode]
}

func NewPromoCache(size int, ttl time.Duration) *PromoCache {
	return &PromoCache{
		lru: expirable.NewLRU[string, *models.PromoCode](size, nil, ttl),
	}
}

func (c *PromoCache) Get(code string) (*models.PromoCode, bool) {
	return c.lru.Get(code)
}

func (c *PromoCache) Set(code string, pc *models.PromoCode) {
	c.lru.Add(code, pc)
}

func (c *PromoCache) Invalidate(code string) {
	c.lru.Remove(code)
}
