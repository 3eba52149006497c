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
	"github.com/KanalKids/kanalkids_api/pkg/midtrans"
	"github.com/KanalKids/kanalkids_api/pkg/rabbitmq"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(order *models.Order) error {
	args := m.Called(order)
	order.ID = 42
	return args.Error(0)
}

func (m *mockOrderStore) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderStore) SetPaymentURL(id int, paymentURL string) error {
	args := m.Called(id, paymentURL)
	return args.Error(0)
}

func (m *mockOrderStore) ListAdmin(page, limit int) ([]models.Order, int, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

type mockCatalogStore struct{ mock.Mock }

func (m *mockCatalogStore) GetAll() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalogStore) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalogStore) GetBySlug(slug string) (*models.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateTransaction(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*midtrans.ChargeResponse), args.Error(1)
}

func (m *mockGateway) GetStatus(ctx context.Context, ref string) (*midtrans.StatusResponse, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*midtrans.StatusResponse), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(event rabbitmq.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func testBuyer() *models.User {
	return &models.User{ID: "u-1", Name: "Sari", Email: "sari@example.com"}
}

func TestCreateOrder(t *testing.T) {
	product := &models.Product{ID: "p-1", Slug: "channel-kit", Name: "Channel Kit", Price: 250_000, PromoPrice: intPtr(199_000)}

	t.Run("returns the gateway payment url verbatim", func(t *testing.T) {
		orders := new(mockOrderStore)
		products := new(mockCatalogStore)
		gateway := new(mockGateway)
		events := new(mockPublisher)

		products.On("GetByID", "p-1").Return(product, nil)
		orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)
		gateway.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(req *midtrans.ChargeRequest) bool {
			return req.TransactionDetails.GrossAmount == 199_000
		})).Return(&midtrans.ChargeResponse{RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/abc123"}, nil)
		orders.On("SetPaymentURL", 42, "https://app.sandbox.midtrans.com/snap/v4/redirection/abc123").Return(nil)
		events.On("Publish", mock.MatchedBy(func(e rabbitmq.OrderEvent) bool {
			return e.Event == "order.created" && e.OrderID == 42
		})).Return(nil)

		svc := NewOrderService(orders, products, gateway, events, 24*time.Hour)
		order, err := svc.CreateOrder(context.Background(), testBuyer(), "p-1")

		require.NoError(t, err)
		require.NotNil(t, order.PaymentURL)
		assert.Equal(t, "https://app.sandbox.midtrans.com/snap/v4/redirection/abc123", *order.PaymentURL)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, 199_000, order.TotalAmount)
		assert.Equal(t, 1, order.Quantity)
		assert.NotEmpty(t, order.Ref)
		orders.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("keeps the pending order when the gateway fails", func(t *testing.T) {
		orders := new(mockOrderStore)
		products := new(mockCatalogStore)
		gateway := new(mockGateway)

		products.On("GetByID", "p-1").Return(product, nil)
		orders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)
		gateway.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		svc := NewOrderService(orders, products, gateway, nil, 24*time.Hour)
		_, err := svc.CreateOrder(context.Background(), testBuyer(), "p-1")

		assert.ErrorIs(t, err, utils.ErrPaymentGateway)
		orders.AssertCalled(t, "Create", mock.Anything)
		orders.AssertNotCalled(t, "SetPaymentURL", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		orders := new(mockOrderStore)
		products := new(mockCatalogStore)

		products.On("GetByID", "missing").Return(nil, sql.ErrNoRows)

		svc := NewOrderService(orders, products, new(mockGateway), nil, 24*time.Hour)
		_, err := svc.CreateOrder(context.Background(), testBuyer(), "missing")

		assert.ErrorIs(t, err, utils.ErrProductNotFound)
		orders.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestPendingOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the newest live pending order", func(t *testing.T) {
		orders := new(mockOrderStore)
		// Newest first, as the store returns them.
		orders.On("ListByUser", "u-1").Return([]models.Order{
			{ID: 5, Status: models.OrderStatusPaid, ExpiredAt: now.Add(time.Hour)},
			{ID: 4, Status: models.OrderStatusPending, ExpiredAt: now.Add(-time.Minute)},
			{ID: 3, Status: models.OrderStatusPending, ExpiredAt: now.Add(2 * time.Hour)},
			{ID: 2, Status: models.OrderStatusPending, ExpiredAt: now.Add(time.Hour)},
		}, nil)

		svc := NewOrderService(orders, new(mockCatalogStore), new(mockGateway), nil, 24*time.Hour)
		order, err := svc.PendingOrder("u-1", now)

		require.NoError(t, err)
		assert.Equal(t, 3, order.ID)
	})

	t.Run("expired pendings do not count", func(t *testing.T) {
		orders := new(mockOrderStore)
		orders.On("ListByUser", "u-1").Return([]models.Order{
			{ID: 1, Status: models.OrderStatusPending, ExpiredAt: now.Add(-time.Second)},
		}, nil)

		svc := NewOrderService(orders, new(mockCatalogStore), new(mockGateway), nil, 24*time.Hour)
		_, err := svc.PendingOrder("u-1", now)

		assert.ErrorIs(t, err, utils.ErrPendingOrderNotFound)
	})

	t.Run("no orders at all", func(t *testing.T) {
		orders := new(mockOrderStore)
		orders.On("ListByUser", "u-1").Return([]models.Order{}, nil)

		svc := NewOrderService(orders, new(mockCatalogStore), new(mockGateway), nil, 24*time.Hour)
		_, err := svc.PendingOrder("u-1", now)

		assert.ErrorIs(t, err, utils.ErrPendingOrderNotFound)
	})
}

func TestProductSlug(t *testing.T) {
	products := new(mockCatalogStore)
	products.On("GetByID", "p-1").Return(&models.Product{ID: "p-1", Slug: "channel-kit"}, nil)
	products.On("GetByID", "missing").Return(nil, sql.ErrNoRows)

	svc := NewOrderService(new(mockOrderStore), products, new(mockGateway), nil, 24*time.Hour)

	slug, err := svc.ProductSlug("p-1")
	require.NoError(t, err)
	assert.Equal(t, "channel-kit", slug)

	_, err = svc.ProductSlug("missing")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}
