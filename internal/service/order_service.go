package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/utils"
	"github.com/KanalKids/kanalkids_api/pkg/midtrans"
	"github.com/KanalKids/kanalkids_api/pkg/rabbitmq"
)

// Every purchase is for exactly one copy of one product.
const orderQuantity = 1

// OrderStore persists orders.
type OrderStore interface {
	Create(order *models.Order) error
	ListByUser(userID string) ([]models.Order, error)
	SetPaymentURL(id int, paymentURL string) error
	ListAdmin(page, limit int) ([]models.Order, int, error)
}

// PaymentGateway is the opaque payment collaborator. The storefront only
// creates payment pages and polls settlement state; everything else about
// the payment protocol stays on the gateway's side.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error)
	GetStatus(ctx context.Context, ref string) (*midtrans.StatusResponse, error)
}

// EventPublisher publishes order lifecycle events. *rabbitmq.Publisher
// satisfies this and is nil-safe.
type EventPublisher interface {
	Publish(event rabbitmq.OrderEvent) error
}

// OrderService owns purchase initiation and order reads.
type OrderService struct {
	orders       OrderStore
	products     CatalogStore
	gateway      PaymentGateway
	events       EventPublisher
	expiryWindow time.Duration
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders OrderStore, products CatalogStore, gateway PaymentGateway, events EventPublisher, expiryWindow time.Duration) *OrderService {
	return &OrderService{
		orders:       orders,
		products:     products,
		gateway:      gateway,
		events:       events,
		expiryWindow: expiryWindow,
	}
}

// CreateOrder creates a pending order for one unit of the product and asks
// the gateway for a payment URL. The caller performs a hard redirect to the
// returned order's PaymentURL.
//
// When the gateway call fails the pending order is kept without a payment
// URL and ErrPaymentGateway is returned; the buyer retries explicitly, there
// is no automatic retry.
func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, productID string) (*models.Order, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		UserID:      user.ID,
		ProductID:   product.ID,
		Quantity:    orderQuantity,
		Status:      models.OrderStatusPending,
		TotalAmount: EffectivePrice(product, now) * orderQuantity,
		Ref:         utils.GenerateOrderRef(),
		ExpiredAt:   now.Add(s.expiryWindow),
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	charge, err := s.gateway.CreateTransaction(ctx, &midtrans.ChargeRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     order.Ref,
			GrossAmount: order.TotalAmount,
		},
		CustomerDetails: &midtrans.CustomerDetails{
			FirstName: user.Name,
			Email:     user.Email,
		},
		ItemDetails: []midtrans.ItemDetail{{
			ID:       product.ID,
			Name:     product.Name,
			Price:    order.TotalAmount,
			Quantity: orderQuantity,
		}},
		Expiry: &midtrans.Expiry{
			Unit:     "minute",
			Duration: int(s.expiryWindow.Minutes()),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("ref", order.Ref).Msg("payment gateway charge failed")
		return nil, utils.ErrPaymentGateway
	}

	if err := s.orders.SetPaymentURL(order.ID, charge.RedirectURL); err != nil {
		return nil, err
	}
	order.PaymentURL = &charge.RedirectURL

	s.publish("order.created", order)

	log.Info().
		Str("ref", order.Ref).
		Str("user_id", order.UserID).
		Str("product_id", order.ProductID).
		Int("amount", order.TotalAmount).
		Msg("order created")

	return order, nil
}

// ListOrders returns the user's orders newest first.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	return s.orders.ListByUser(userID)
}

// PendingOrder returns the user's most recent order that is still pending
// and not yet expired. The order list is sorted by creation time descending,
// so the first qualifying entry is the most recent one.
func (s *OrderService) PendingOrder(userID string, now time.Time) (*models.Order, error) {
	orders, err := s.orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Status == models.OrderStatusPending && orders[i].ExpiredAt.After(now) {
			return &orders[i], nil
		}
	}
	return nil, utils.ErrPendingOrderNotFound
}

// ProductSlug resolves a product's storefront slug, used to build the
// register-then-buy callback for anonymous purchase attempts.
func (s *OrderService) ProductSlug(productID string) (string, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", utils.ErrProductNotFound
		}
		return "", err
	}
	return product.Slug, nil
}

// ListAdminOrders returns a page of all orders with product names projected.
func (s *OrderService) ListAdminOrders(page, limit int) ([]models.Order, int, error) {
	return s.orders.ListAdmin(page, limit)
}

func (s *OrderService) publish(event string, order *models.Order) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(rabbitmq.OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		Ref:         order.Ref,
		UserID:      order.UserID,
		ProductID:   order.ProductID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	})
	if err != nil {
		log.Warn().Err(err).Str("ref", order.Ref).Str("event", event).Msg("order event publish failed")
	}
}
