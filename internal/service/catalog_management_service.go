package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/cache"
	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// CatalogManagementService owns the backoffice CRUD for products, link
// categories, and links. Every write invalidates the catalog cache so the
// storefront picks up changes within one request.
type CatalogManagementService struct {
	products   *repository.ProductRepository
	categories *repository.LinkCategoryRepository
	links      *repository.LinkRepository
	cache      *cache.CatalogCache
}

// NewCatalogManagementService creates a new CatalogManagementService.
func NewCatalogManagementService(
	products *repository.ProductRepository,
	categories *repository.LinkCategoryRepository,
	links *repository.LinkRepository,
	catalogCache *cache.CatalogCache,
) *CatalogManagementService {
	return &CatalogManagementService{
		products:   products,
		categories: categories,
		links:      links,
		cache:      catalogCache,
	}
}

// ListProducts returns all products with categories and links hydrated,
// newest first. Admin listings are never gated or cached.
func (s *CatalogManagementService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if err := s.hydrate(&products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// GetProduct returns one product with categories and links hydrated.
func (s *CatalogManagementService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if err := s.hydrate(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct validates and inserts a product.
func (s *CatalogManagementService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Info().Str("product_id", product.ID).Str("slug", product.Slug).Msg("product created")
	return product, nil
}

// UpdateProduct validates and updates a product.
func (s *CatalogManagementService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	if err := s.products.Update(product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// DeleteProduct removes a product and its link tree.
func (s *CatalogManagementService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx)
	log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// CreateCategory adds a link category to a product.
func (s *CatalogManagementService) CreateCategory(ctx context.Context, cat *models.LinkCategory) (*models.LinkCategory, error) {
	if _, err := s.products.GetByID(cat.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if err := s.categories.Create(cat); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return cat, nil
}

// UpdateCategory updates a link category.
func (s *CatalogManagementService) UpdateCategory(ctx context.Context, cat *models.LinkCategory) (*models.LinkCategory, error) {
	if err := s.categories.Update(cat); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return cat, nil
}

// DeleteCategory removes a link category and its links.
func (s *CatalogManagementService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrCategoryNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CreateLink adds a link to a category.
func (s *CatalogManagementService) CreateLink(ctx context.Context, link *models.Link) (*models.Link, error) {
	if _, err := s.categories.GetByID(link.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	if err := s.links.Create(link); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return link, nil
}

// UpdateLink updates a link.
func (s *CatalogManagementService) UpdateLink(ctx context.Context, link *models.Link) (*models.Link, error) {
	if err := s.links.Update(link); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrLinkNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return link, nil
}

// DeleteLink removes a link.
func (s *CatalogManagementService) DeleteLink(ctx context.Context, id string) error {
	if err := s.links.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrLinkNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// validateProduct enforces countdown coherence: a countdown promotion must
// carry its end timestamp. promo_price is deliberately not checked against
// price; the storefront suppresses non-positive discount badges instead.
func validateProduct(product *models.Product) error {
	if product.IsCountdownPromotion && product.PromoEndAt == nil {
		return utils.ErrPromoEndRequired
	}
	return nil
}

func (s *CatalogManagementService) hydrate(product *models.Product) error {
	categories, err := s.categories.GetByProductID(product.ID)
	if err != nil {
		return err
	}
	for i := range categories {
		links, err := s.links.GetByCategoryID(categories[i].ID)
		if err != nil {
			return err
		}
		categories[i].Links = links
	}
	product.LinkCategories = categories
	return nil
}

func (s *CatalogManagementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
