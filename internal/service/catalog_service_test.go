package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) GetByProductID(productID string) ([]models.LinkCategory, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LinkCategory), args.Error(1)
}

type mockLinkStore struct{ mock.Mock }

func (m *mockLinkStore) GetByProductID(productID string) ([]models.Link, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Link), args.Error(1)
}

type mockOwnershipStore struct{ mock.Mock }

func (m *mockOwnershipStore) ListByUser(userID string) ([]models.UserProduct, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserProduct), args.Error(1)
}

func (m *mockOwnershipStore) CountByUser(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *mockOwnershipStore) GetByID(id string) (*models.UserProduct, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProduct), args.Error(1)
}

func catalogFixture() (*mockCatalogStore, *mockCategoryStore, *mockLinkStore, *mockOwnershipStore) {
	return new(mockCatalogStore), new(mockCategoryStore), new(mockLinkStore), new(mockOwnershipStore)
}

func TestListProductsGating(t *testing.T) {
	future := time.Now().Add(2 * time.Hour)
	catalog := []models.Product{
		{ID: "p-1", Slug: "channel-kit", Name: "Channel Kit", Price: 250_000, PromoPrice: intPtr(199_000), IsCountdownPromotion: true, PromoEndAt: &future},
		{ID: "p-2", Slug: "thumbnail-pack", Name: "Thumbnail Pack", Price: 99_000},
	}

	t.Run("anonymous viewer sees pricing on everything", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetAll").Return(catalog, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		views, err := svc.ListProducts(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, views, 2)
		require.NotNil(t, views[0].Price)
		assert.Equal(t, 250_000, *views[0].Price)
		assert.Equal(t, 20, views[0].DiscountPercent)
		require.NotNil(t, views[0].Countdown)
		assert.False(t, views[0].Countdown.Expired)
		assert.False(t, views[0].Purchased)
		ownership.AssertNotCalled(t, "ListByUser", mock.Anything)
	})

	t.Run("owned products hide pricing", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetAll").Return(catalog, nil)
		ownership.On("ListByUser", "u-1").Return([]models.UserProduct{
			{ID: "up-1", UserID: "u-1", ProductID: "p-1"},
		}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		views, err := svc.ListProducts(context.Background(), "u-1")

		require.NoError(t, err)
		assert.True(t, views[0].Purchased)
		assert.Equal(t, "up-1", views[0].UserProductID)
		assert.Nil(t, views[0].Price)
		assert.Nil(t, views[0].PromoPrice)
		assert.Zero(t, views[0].DiscountPercent)
		assert.Nil(t, views[0].Countdown)

		assert.False(t, views[1].Purchased)
		require.NotNil(t, views[1].Price)
		assert.Equal(t, 99_000, *views[1].Price)
	})

	t.Run("discount badge suppressed when promo does not undercut", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetAll").Return([]models.Product{
			{ID: "p-3", Slug: "no-deal", Name: "No Deal", Price: 99_000, PromoPrice: intPtr(99_000)},
		}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		views, err := svc.ListProducts(context.Background(), "")

		require.NoError(t, err)
		assert.Zero(t, views[0].DiscountPercent)
	})
}

func TestGetProductBySlugLinkLocking(t *testing.T) {
	desc := "starter pack"
	product := &models.Product{ID: "p-1", Slug: "channel-kit", Name: "Channel Kit", Price: 250_000}
	cats := []models.LinkCategory{
		{ID: "c-1", ProductID: "p-1", Name: "Templates", DisplayOrder: 1},
		{ID: "c-2", ProductID: "p-1", Name: "Bonuses", DisplayOrder: 2},
	}
	linkRows := []models.Link{
		{ID: "l-1", CategoryID: "c-1", Name: "Intro template", URL: "https://drive.example.com/intro", Description: &desc, DisplayOrder: 1},
		{ID: "l-2", CategoryID: "c-2", Name: "Bonus pack", URL: "https://drive.example.com/bonus", DisplayOrder: 1},
	}

	t.Run("locked for viewers who have not bought", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetBySlug", "channel-kit").Return(product, nil)
		categories.On("GetByProductID", "p-1").Return(cats, nil)
		links.On("GetByProductID", "p-1").Return(linkRows, nil)
		ownership.On("ListByUser", "u-1").Return([]models.UserProduct{}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		view, err := svc.GetProductBySlug(context.Background(), "channel-kit", "u-1")

		require.NoError(t, err)
		require.Len(t, view.LinkCategories, 2)
		lk := view.LinkCategories[0].Links[0]
		assert.True(t, lk.Locked)
		assert.Empty(t, lk.URL)
		assert.Equal(t, "Intro template", lk.Name)
	})

	t.Run("unlocked for owners", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetBySlug", "channel-kit").Return(product, nil)
		categories.On("GetByProductID", "p-1").Return(cats, nil)
		links.On("GetByProductID", "p-1").Return(linkRows, nil)
		ownership.On("ListByUser", "u-1").Return([]models.UserProduct{
			{ID: "up-1", UserID: "u-1", ProductID: "p-1"},
		}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		view, err := svc.GetProductBySlug(context.Background(), "channel-kit", "u-1")

		require.NoError(t, err)
		assert.True(t, view.Purchased)
		lk := view.LinkCategories[0].Links[0]
		assert.False(t, lk.Locked)
		assert.Equal(t, "https://drive.example.com/intro", lk.URL)
	})

	t.Run("unknown slug", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		products.On("GetBySlug", "nope").Return(nil, sql.ErrNoRows)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		_, err := svc.GetProductBySlug(context.Background(), "nope", "")

		assert.ErrorIs(t, err, utils.ErrProductNotFound)
	})
}

func TestGetUserProduct(t *testing.T) {
	t.Run("other users' purchases look like missing records", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		ownership.On("GetByID", "up-1").Return(&models.UserProduct{ID: "up-1", UserID: "someone-else", ProductID: "p-1"}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		_, err := svc.GetUserProduct(context.Background(), "u-1", "up-1")

		assert.ErrorIs(t, err, utils.ErrUserProductNotFound)
	})

	t.Run("owner gets the unlocked product", func(t *testing.T) {
		products, categories, links, ownership := catalogFixture()
		ownership.On("GetByID", "up-1").Return(&models.UserProduct{ID: "up-1", UserID: "u-1", ProductID: "p-1"}, nil)
		products.On("GetByID", "p-1").Return(&models.Product{ID: "p-1", Slug: "channel-kit", Price: 250_000}, nil)
		categories.On("GetByProductID", "p-1").Return([]models.LinkCategory{}, nil)
		links.On("GetByProductID", "p-1").Return([]models.Link{}, nil)

		svc := NewCatalogService(products, categories, links, ownership, nil)
		view, err := svc.GetUserProduct(context.Background(), "u-1", "up-1")

		require.NoError(t, err)
		assert.True(t, view.Product.Purchased)
		assert.Nil(t, view.Product.Price)
	})
}
