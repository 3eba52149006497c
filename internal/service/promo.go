package service

import (
	"math"
	"time"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// Countdown is the remaining time of a promotion window, broken into whole
// units for display. All fields are zero once the window has passed.
type Countdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}

// Remaining computes the countdown between now and endAt. Units are floored
// and never negative; at or after endAt the countdown is expired with all
// fields clamped to zero.
func Remaining(endAt, now time.Time) Countdown {
	diff := endAt.Sub(now)
	if diff <= 0 {
		return Countdown{Expired: true}
	}
	secs := int(diff.Seconds())
	return Countdown{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// DiscountPercent computes the rounded discount percentage of a promo price
// against the regular price. Returns 0 when there is no promo price or the
// regular price is not positive. The result may be zero or negative when the
// promo price does not undercut the regular price; callers suppress the badge
// unless the result is strictly positive.
func DiscountPercent(price int, promoPrice *int) int {
	if promoPrice == nil || price <= 0 {
		return 0
	}
	return int(math.Round(float64(price-*promoPrice) / float64(price) * 100))
}

// PromoActive reports whether a product's promo price currently applies.
// A plain promo applies whenever promo_price is set; a countdown promo only
// applies while promo_end_at is still in the future.
func PromoActive(p *models.Product, now time.Time) bool {
	if p.PromoPrice == nil {
		return false
	}
	if p.IsCountdownPromotion && p.PromoEndAt != nil {
		return p.PromoEndAt.After(now)
	}
	return true
}

// EffectivePrice returns the amount a buyer pays for the product right now.
func EffectivePrice(p *models.Product, now time.Time) int {
	if PromoActive(p, now) {
		return *p.PromoPrice
	}
	return p.Price
}
