package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
	"github.com/KanalKids/kanalkids_api/pkg/midtrans"
)

type stubCatalogStore struct{ mock.Mock }

func (m *stubCatalogStore) GetAll() ([]models.Product, error) { return nil, nil }

func (m *stubCatalogStore) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *stubCatalogStore) GetBySlug(slug string) (*models.Product, error) { return nil, sql.ErrNoRows }

type stubOrderStore struct{ mock.Mock }

func (m *stubOrderStore) Create(order *models.Order) error {
	args := m.Called(order)
	order.ID = 7
	return args.Error(0)
}

func (m *stubOrderStore) ListByUser(userID string) ([]models.Order, error) { return nil, nil }

func (m *stubOrderStore) SetPaymentURL(id int, paymentURL string) error {
	args := m.Called(id, paymentURL)
	return args.Error(0)
}

func (m *stubOrderStore) ListAdmin(page, limit int) ([]models.Order, int, error) { return nil, 0, nil }

type stubGateway struct{ mock.Mock }

func (m *stubGateway) CreateTransaction(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*midtrans.ChargeResponse), args.Error(1)
}

func (m *stubGateway) GetStatus(ctx context.Context, ref string) (*midtrans.StatusResponse, error) {
	return nil, nil
}

type stubUserStore struct{ mock.Mock }

func (m *stubUserStore) GetByEmail(email string) (*models.User, error) { return nil, sql.ErrNoRows }

func (m *stubUserStore) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *stubUserStore) Create(user *models.User) error              { return nil }
func (m *stubUserStore) UpdatePassword(id, passwordHash string) error { return nil }

func newOrderRouter(t *testing.T, orders *stubOrderStore, products *stubCatalogStore, gateway *stubGateway, users *stubUserStore, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderSvc := service.NewOrderService(orders, products, gateway, nil, 24*time.Hour)
	authSvc := service.NewAuthService(users, nil, nil, "test-secret", "https://kanalkids.id")
	h := NewOrderHandler(orderSvc, authSvc)

	router := gin.New()
	router.POST("/v1/orders", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
	}, h.CreateOrder)
	return router
}

func postOrder(router *gin.Engine, productID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"productId": productID})
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderAnonymousRedirect(t *testing.T) {
	products := new(stubCatalogStore)
	products.On("GetByID", "p-1").Return(&models.Product{ID: "p-1", Slug: "foo"}, nil)

	router := newOrderRouter(t, new(stubOrderStore), products, new(stubGateway), new(stubUserStore), "")
	w := postOrder(router, "p-1")

	assert.Equal(t, 401, w.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Equal(t, "/register?callback=%2Fproduct%2Ffoo", resp.Error.Redirect)
}

func TestCreateOrderAuthenticated(t *testing.T) {
	products := new(stubCatalogStore)
	products.On("GetByID", "p-1").Return(&models.Product{ID: "p-1", Slug: "foo", Name: "Foo", Price: 150_000}, nil)

	users := new(stubUserStore)
	users.On("GetByID", "u-1").Return(&models.User{ID: "u-1", Name: "Sari", Email: "sari@example.com"}, nil)

	orders := new(stubOrderStore)
	orders.On("Create", mock.Anything).Return(nil)
	orders.On("SetPaymentURL", 7, "https://pay.example.com/x").Return(nil)

	gateway := new(stubGateway)
	gateway.On("CreateTransaction", mock.Anything, mock.Anything).Return(&midtrans.ChargeResponse{RedirectURL: "https://pay.example.com/x"}, nil)

	router := newOrderRouter(t, orders, products, gateway, users, "u-1")
	w := postOrder(router, "p-1")

	assert.Equal(t, 201, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.PaymentURL)
	assert.Equal(t, "https://pay.example.com/x", *resp.Data.PaymentURL)
	assert.Equal(t, models.OrderStatusPending, resp.Data.Status)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	products := new(stubCatalogStore)
	products.On("GetByID", "missing").Return(nil, sql.ErrNoRows)

	router := newOrderRouter(t, new(stubOrderStore), products, new(stubGateway), new(stubUserStore), "")
	w := postOrder(router, "missing")

	assert.Equal(t, 404, w.Code)
}
