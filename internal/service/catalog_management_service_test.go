package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

func TestValidateProduct(t *testing.T) {
	endAt := time.Now().Add(48 * time.Hour)

	t.Run("countdown without an end timestamp is rejected", func(t *testing.T) {
		p := &models.Product{Name: "Paket", Price: 100_000, PromoPrice: intPtr(75_000), IsCountdownPromotion: true}
		assert.ErrorIs(t, validateProduct(p), utils.ErrPromoEndRequired)
	})

	t.Run("countdown with an end timestamp passes", func(t *testing.T) {
		p := &models.Product{Name: "Paket", Price: 100_000, PromoPrice: intPtr(75_000), IsCountdownPromotion: true, PromoEndAt: &endAt}
		assert.NoError(t, validateProduct(p))
	})

	t.Run("plain products pass", func(t *testing.T) {
		p := &models.Product{Name: "Paket", Price: 100_000}
		assert.NoError(t, validateProduct(p))
	})
}
