package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/pkg/midtrans"
	"github.com/KanalKids/kanalkids_api/pkg/rabbitmq"
)

// PaymentSyncWorker polls the payment gateway for pending orders that already
// have a payment page. The status endpoint is idempotent, so re-checking the
// same ref is safe; settlement is recorded at most once through the unique
// constraint on user_products.order_id.
type PaymentSyncWorker struct {
	orderRepo       *repository.OrderRepository
	userProductRepo *repository.UserProductRepository
	gateway         service.PaymentGateway
	events          service.EventPublisher
	interval        time.Duration
}

// NewPaymentSyncWorker constructs a PaymentSyncWorker.
func NewPaymentSyncWorker(
	orderRepo *repository.OrderRepository,
	userProductRepo *repository.UserProductRepository,
	gateway service.PaymentGateway,
	events service.EventPublisher,
	interval time.Duration,
) *PaymentSyncWorker {
	return &PaymentSyncWorker{
		orderRepo:       orderRepo,
		userProductRepo: userProductRepo,
		gateway:         gateway,
		events:          events,
		interval:        interval,
	}
}

// Start begins the periodic payment sync loop until context is canceled.
func (w *PaymentSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting payment sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Payment sync worker stopped")
			return
		}
	}
}

func (w *PaymentSyncWorker) run(ctx context.Context) {
	pending, err := w.orderRepo.GetPendingWithPaymentURL(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get pending orders for payment sync")
		return
	}
	if len(pending) == 0 {
		return
	}

	for i := range pending {
		select {
		case <-ctx.Done():
			return
		default:
			w.syncOrder(ctx, &pending[i])
		}
	}
}

func (w *PaymentSyncWorker) syncOrder(ctx context.Context, order *models.Order) {
	status, err := w.gateway.GetStatus(ctx, order.Ref)
	if err != nil {
		log.Warn().Err(err).Str("ref", order.Ref).Msg("Payment status check failed")
		return
	}

	switch {
	case status.Settled():
		w.settle(order)
	case status.TransactionStatus == midtrans.StatusExpire:
		w.transition(order, models.OrderStatusExpired, "order.expired")
	case status.TransactionStatus == midtrans.StatusCancel, status.TransactionStatus == midtrans.StatusDeny:
		w.transition(order, models.OrderStatusCancelled, "order.cancelled")
	}
}

// settle marks the order paid and records ownership. The status update is
// guarded on the order still being pending, so a concurrent sweep cannot
// settle twice.
func (w *PaymentSyncWorker) settle(order *models.Order) {
	if err := w.orderRepo.UpdateStatus(order.ID, models.OrderStatusPaid); err != nil {
		log.Warn().Err(err).Str("ref", order.Ref).Msg("Order already transitioned, skipping settlement")
		return
	}
	order.Status = models.OrderStatusPaid

	if err := w.userProductRepo.CreateFromOrder(order); err != nil {
		// The order is already paid; ownership will be recorded on the
		// next sweep when the insert succeeds.
		log.Error().Err(err).Str("ref", order.Ref).Msg("Failed to record ownership for settled order")
		return
	}

	w.publish("order.paid", order)
	log.Info().
		Str("ref", order.Ref).
		Str("user_id", order.UserID).
		Str("product_id", order.ProductID).
		Msg("Order settled")
}

func (w *PaymentSyncWorker) transition(order *models.Order, status models.OrderStatus, event string) {
	if err := w.orderRepo.UpdateStatus(order.ID, status); err != nil {
		log.Warn().Err(err).Str("ref", order.Ref).Msg("Order already transitioned, skipping")
		return
	}
	order.Status = status
	w.publish(event, order)
	log.Info().Str("ref", order.Ref).Str("status", string(status)).Msg("Order transitioned from gateway status")
}

func (w *PaymentSyncWorker) publish(event string, order *models.Order) {
	if w.events == nil {
		return
	}
	err := w.events.Publish(rabbitmq.OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		Ref:         order.Ref,
		UserID:      order.UserID,
		ProductID:   order.ProductID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
	})
	if err != nil {
		log.Warn().Err(err).Str("ref", order.Ref).Str("event", event).Msg("Order event publish failed")
	}
}
