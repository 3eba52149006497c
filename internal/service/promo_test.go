package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

func intPtr(v int) *int { return &v }

func TestRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("breaks remaining time into whole units", func(t *testing.T) {
		endAt := now.Add(24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second)
		cd := Remaining(endAt, now)
		assert.Equal(t, Countdown{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}, cd)
	})

	t.Run("floors partial seconds", func(t *testing.T) {
		endAt := now.Add(90*time.Second + 500*time.Millisecond)
		cd := Remaining(endAt, now)
		assert.Equal(t, 1, cd.Minutes)
		assert.Equal(t, 30, cd.Seconds)
	})

	t.Run("clamps to zero at the deadline", func(t *testing.T) {
		cd := Remaining(now, now)
		assert.Equal(t, Countdown{Expired: true}, cd)
	})

	t.Run("clamps to zero after the deadline", func(t *testing.T) {
		cd := Remaining(now.Add(-time.Hour), now)
		assert.True(t, cd.Expired)
		assert.Zero(t, cd.Days)
		assert.Zero(t, cd.Hours)
		assert.Zero(t, cd.Minutes)
		assert.Zero(t, cd.Seconds)
	})
}

func TestDiscountPercent(t *testing.T) {
	t.Run("rounds to the nearest whole percent", func(t *testing.T) {
		// 2_500_000 -> 199_000 is a 92.04% cut.
		assert.Equal(t, 92, DiscountPercent(2_500_000, intPtr(199_000)))
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 1000 -> 825 is exactly 17.5%.
		assert.Equal(t, 18, DiscountPercent(1000, intPtr(825)))
	})

	t.Run("zero without a promo price", func(t *testing.T) {
		assert.Zero(t, DiscountPercent(100_000, nil))
	})

	t.Run("zero when regular price is not positive", func(t *testing.T) {
		assert.Zero(t, DiscountPercent(0, intPtr(50)))
	})

	t.Run("not positive when promo does not undercut", func(t *testing.T) {
		assert.Equal(t, 0, DiscountPercent(100_000, intPtr(100_000)))
		assert.Equal(t, -10, DiscountPercent(100_000, intPtr(110_000)))
	})
}

func TestPromoActive(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("plain promo applies whenever set", func(t *testing.T) {
		p := &models.Product{Price: 100_000, PromoPrice: intPtr(75_000)}
		assert.True(t, PromoActive(p, now))
	})

	t.Run("countdown promo applies before the deadline", func(t *testing.T) {
		p := &models.Product{Price: 100_000, PromoPrice: intPtr(75_000), IsCountdownPromotion: true, PromoEndAt: &future}
		assert.True(t, PromoActive(p, now))
	})

	t.Run("countdown promo stops at the deadline", func(t *testing.T) {
		p := &models.Product{Price: 100_000, PromoPrice: intPtr(75_000), IsCountdownPromotion: true, PromoEndAt: &past}
		assert.False(t, PromoActive(p, now))
	})

	t.Run("no promo price means no promo", func(t *testing.T) {
		p := &models.Product{Price: 100_000, IsCountdownPromotion: true, PromoEndAt: &future}
		assert.False(t, PromoActive(p, now))
	})
}

func TestEffectivePrice(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	p := &models.Product{Price: 250_000, PromoPrice: intPtr(199_000)}
	assert.Equal(t, 199_000, EffectivePrice(p, now))

	expired := &models.Product{Price: 250_000, PromoPrice: intPtr(199_000), IsCountdownPromotion: true, PromoEndAt: &past}
	assert.Equal(t, 250_000, EffectivePrice(expired, now))
}
