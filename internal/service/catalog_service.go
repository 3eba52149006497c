package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/cache"
	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// ProductView is the viewer-aware product payload. Pricing fields are hidden
// once the viewer owns the product, and link URLs are withheld until then.
type ProductView struct {
	ID                   string             `json:"id"`
	Slug                 string             `json:"slug"`
	Name                 string             `json:"name"`
	Description          string             `json:"description"`
	ImageURL             string             `json:"imageUrl"`
	Type                 models.ProductType `json:"type"`
	Price                *int               `json:"price,omitempty"`
	PromoPrice           *int               `json:"promoPrice,omitempty"`
	DiscountPercent      int                `json:"discountPercent,omitempty"`
	IsCountdownPromotion bool               `json:"isCountdownPromotion"`
	PromoEndAt           *time.Time         `json:"promoEndAt,omitempty"`
	Countdown            *Countdown         `json:"countdown,omitempty"`
	Purchased            bool               `json:"purchased"`
	UserProductID        string             `json:"userProductId,omitempty"`
	LinkCategories       []CategoryView     `json:"linkCategories,omitempty"`
}

// CategoryView is a link category as rendered for a viewer.
type CategoryView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Links       []LinkView `json:"links"`
}

// LinkView is a single link. URL is only present when the viewer owns the
// product; locked links render as disabled rows.
type LinkView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order"`
	URL         string  `json:"url,omitempty"`
	Locked      bool    `json:"locked"`
}

// UserProductView pairs an ownership record with its unlocked product.
type UserProductView struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Product   ProductView `json:"product"`
}

// Store interfaces kept small so tests can swap in mocks.

// CatalogStore reads products.
type CatalogStore interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
}

// CategoryStore reads link categories of a product.
type CategoryStore interface {
	GetByProductID(productID string) ([]models.LinkCategory, error)
}

// LinkStore reads links of a product.
type LinkStore interface {
	GetByProductID(productID string) ([]models.Link, error)
}

// OwnershipStore reads the viewer's purchased products.
type OwnershipStore interface {
	ListByUser(userID string) ([]models.UserProduct, error)
	CountByUser(userID string) (int, error)
	GetByID(id string) (*models.UserProduct, error)
}

// CatalogService serves viewer-aware product reads for the storefront.
type CatalogService struct {
	products   CatalogStore
	categories CategoryStore
	links      LinkStore
	ownership  OwnershipStore
	cache      *cache.CatalogCache
}

// NewCatalogService creates a new CatalogService. The cache may be nil.
func NewCatalogService(products CatalogStore, categories CategoryStore, links LinkStore, ownership OwnershipStore, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		links:      links,
		ownership:  ownership,
		cache:      catalogCache,
	}
}

// ListProducts returns every product resolved against the viewer's ownership.
// viewerID may be empty for anonymous visitors.
func (s *CatalogService) ListProducts(ctx context.Context, viewerID string) ([]ProductView, error) {
	products, err := s.cachedProducts(ctx)
	if err != nil {
		return nil, err
	}

	owned, err := s.ownedByProduct(viewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, s.buildView(&products[i], owned, now))
	}
	return views, nil
}

// GetProductBySlug returns a product detail with its link categories, gated
// by the viewer's ownership.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug, viewerID string) (*ProductView, error) {
	product, err := s.cachedProduct(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	owned, err := s.ownedByProduct(viewerID)
	if err != nil {
		return nil, err
	}

	view := s.buildView(product, owned, time.Now())
	if err := s.attachCategories(&view, product.ID); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListUserProducts returns the viewer's purchased products with links
// unlocked, plus the total owned count.
func (s *CatalogService) ListUserProducts(ctx context.Context, viewerID string) ([]UserProductView, int, error) {
	ups, err := s.ownership.ListByUser(viewerID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ownership.CountByUser(viewerID)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	views := make([]UserProductView, 0, len(ups))
	for i := range ups {
		product, err := s.products.GetByID(ups[i].ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Product deleted after purchase; skip the orphan record.
				continue
			}
			return nil, 0, err
		}
		pv := s.buildView(product, map[string]string{product.ID: ups[i].ID}, now)
		views = append(views, UserProductView{ID: ups[i].ID, CreatedAt: ups[i].CreatedAt, Product: pv})
	}
	return views, total, nil
}

// GetUserProduct returns one owned product with its links unlocked. Records
// belonging to other users are reported as not found.
func (s *CatalogService) GetUserProduct(ctx context.Context, viewerID, id string) (*UserProductView, error) {
	up, err := s.ownership.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUserProductNotFound
		}
		return nil, err
	}
	if up.UserID != viewerID {
		return nil, utils.ErrUserProductNotFound
	}

	product, err := s.products.GetByID(up.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUserProductNotFound
		}
		return nil, err
	}

	view := s.buildView(product, map[string]string{product.ID: up.ID}, time.Now())
	if err := s.attachCategories(&view, product.ID); err != nil {
		return nil, err
	}
	return &UserProductView{ID: up.ID, CreatedAt: up.CreatedAt, Product: view}, nil
}

// ownedByProduct maps product_id -> user_product_id for the viewer.
func (s *CatalogService) ownedByProduct(viewerID string) (map[string]string, error) {
	if viewerID == "" {
		return nil, nil
	}
	ups, err := s.ownership.ListByUser(viewerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]string, len(ups))
	for _, up := range ups {
		owned[up.ProductID] = up.ID
	}
	return owned, nil
}

// buildView applies purchased gating and promo derivation to one product.
func (s *CatalogService) buildView(p *models.Product, owned map[string]string, now time.Time) ProductView {
	view := ProductView{
		ID:                   p.ID,
		Slug:                 p.Slug,
		Name:                 p.Name,
		Description:          p.Description,
		ImageURL:             p.ImageURL,
		Type:                 p.Type,
		IsCountdownPromotion: p.IsCountdownPromotion,
	}

	if upID, ok := owned[p.ID]; ok {
		view.Purchased = true
		view.UserProductID = upID
		return view
	}

	price := p.Price
	view.Price = &price
	view.PromoPrice = p.PromoPrice
	if pct := DiscountPercent(p.Price, p.PromoPrice); pct > 0 {
		view.DiscountPercent = pct
	}
	if p.IsCountdownPromotion && p.PromoEndAt != nil {
		view.PromoEndAt = p.PromoEndAt
		cd := Remaining(*p.PromoEndAt, now)
		view.Countdown = &cd
	}
	return view
}

// attachCategories loads link categories and links for a product view and
// applies link locking for unpurchased viewers.
func (s *CatalogService) attachCategories(view *ProductView, productID string) error {
	categories, err := s.categories.GetByProductID(productID)
	if err != nil {
		return err
	}
	links, err := s.links.GetByProductID(productID)
	if err != nil {
		return err
	}

	byCategory := make(map[string][]LinkView, len(categories))
	for _, l := range links {
		lv := LinkView{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Order:       l.DisplayOrder,
			Locked:      !view.Purchased,
		}
		if view.Purchased {
			lv.URL = l.URL
		}
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], lv)
	}

	view.LinkCategories = make([]CategoryView, 0, len(categories))
	for _, cat := range categories {
		cv := CategoryView{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			Order:       cat.DisplayOrder,
			Links:       byCategory[cat.ID],
		}
		if cv.Links == nil {
			cv.Links = []LinkView{}
		}
		view.LinkCategories = append(view.LinkCategories, cv)
	}
	return nil
}

// cachedProducts serves the product list through the catalog cache.
func (s *CatalogService) cachedProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.GetProducts(ctx); err == nil {
			return products, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	products, err := s.products.GetAll()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return products, nil
}

// cachedProduct serves one product detail through the catalog cache.
func (s *CatalogService) cachedProduct(ctx context.Context, slug string) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.GetProduct(ctx, slug); err == nil {
			return p, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	p, err := s.products.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, p); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return p, nil
}
