package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// Catalog staleness window. Reads within this window are served from Redis;
// admin writes invalidate eagerly.
const catalogTTL = 60 * time.Second

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CatalogCache caches product catalog reads keyed by (operation, parameters).
// It stores raw catalog rows; viewer-specific gating is applied after the
// cache so entries are shared across users.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

func (c *CatalogCache) keyList() string {
	return "catalog:products"
}

func (c *CatalogCache) keyBySlug(slug string) string {
	return fmt.Sprintf("catalog:product:%s", slug)
}

// GetProducts returns the cached product list, or ErrCacheMiss.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := c.redis.Get(ctx, c.keyList())
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetProducts caches the product list for the staleness window.
func (c *CatalogCache) SetProducts(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	return c.redis.Set(ctx, c.keyList(), string(raw), catalogTTL)
}

// GetProduct returns a cached product detail by slug, or ErrCacheMiss.
func (c *CatalogCache) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	raw, err := c.redis.Get(ctx, c.keyBySlug(slug))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProduct caches a product detail for the staleness window.
func (c *CatalogCache) SetProduct(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	return c.redis.Set(ctx, c.keyBySlug(p.Slug), string(raw), catalogTTL)
}

// Invalidate drops all catalog entries. Called after every admin write.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Delete(ctx, c.keyList()); err != nil {
		return err
	}
	return c.redis.DeleteByPattern(ctx, "catalog:product:*")
}
