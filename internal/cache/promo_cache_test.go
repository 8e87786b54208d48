package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crazyplay/storefront-service/internal/models"
)

func TestPromoCache(t *testing.T) {
	c := NewPromoCache(2, time.Minute)

	pc := &models.PromoCode{Code: "WELCOME", DiscountPercentage: 10}
	c.Set("WELCOME", pc)

	got, ok := c.Get("WELCOME")
	assert.True(t, ok)
	assert.Equal(t, pc, got)

	c.Invalidate("WELCOME")
	_, ok = c.Get("WELCOME")
	assert.False(t, ok)
}

func TestPromoCacheBounded(t *testing.T) {
	c := NewPromoCache(2, time.Minute)
	c.Set("A", &models.PromoCode{Code: "A"})
	c.Set("B", &models.PromoCode{Code: "B"})
	c.Set("C", &models.PromoCode{Code: "C"})

	// oldest entry evicted
	_, ok := c.Get("A")
	assert.False(t, ok)
	_, ok = c.Get("C")
	assert.True(t, ok)
}

func TestPromoCacheExpires(t *testing.T) {
	c := NewPromoCache(4, 10*time.Millisecond)
	c.Set("WELCOME", &models.PromoCode{Code: "WELCOME"})

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("WELCOME")
	assert.False(t, ok)
}
