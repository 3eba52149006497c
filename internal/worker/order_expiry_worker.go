package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/pkg/rabbitmq"
)

// OrderExpiryWorker sweeps pending orders past their expiry into the expired
// state. The payment page countdown on the storefront is cosmetic; this sweep
// is what actually closes the window.
type OrderExpiryWorker struct {
	orderRepo *repository.OrderRepository
	events    service.EventPublisher
	interval  time.Duration
}

// NewOrderExpiryWorker constructs an OrderExpiryWorker.
func NewOrderExpiryWorker(orderRepo *repository.OrderRepository, events service.EventPublisher, interval time.Duration) *OrderExpiryWorker {
	return &OrderExpiryWorker{
		orderRepo: orderRepo,
		events:    events,
		interval:  interval,
	}
}

// Start begins the periodic expiry sweep until context is canceled.
func (w *OrderExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting order expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Order expiry worker stopped")
			return
		}
	}
}

func (w *OrderExpiryWorker) run() {
	expired, err := w.orderRepo.ExpirePastDue(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire past-due orders")
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Info().Int("count", len(expired)).Msg("Expired past-due orders")

	if w.events == nil {
		return
	}
	for i := range expired {
		o := &expired[i]
		err := w.events.Publish(rabbitmq.OrderEvent{
			Event:       "order.expired",
			OrderID:     o.ID,
			Ref:         o.Ref,
			UserID:      o.UserID,
			ProductID:   o.ProductID,
			Status:      string(o.Status),
			TotalAmount: o.TotalAmount,
		})
		if err != nil {
			log.Warn().Err(err).Str("ref", o.Ref).Msg("Order event publish failed")
		}
	}
}
