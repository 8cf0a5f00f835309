package orders

import (
	"context"
	"errors"
	"strconv"

	"go.temporal.io/sdk/activity"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	ordersports "github.com/martagenovese/poldo/internal/domains/orders/ports"
	"github.com/martagenovese/poldo/internal/platform/kafka"
)

const (
	// MarkOrderPreparedActivityName flips a confirmed order to prepared.
	MarkOrderPreparedActivityName = "orders.activities.MarkOrderPrepared"
	// NotifyOrderPreparedActivityName publishes the prepared audit event.
	NotifyOrderPreparedActivityName = "orders.activities.NotifyOrderPrepared"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service   ordersports.Service
	publisher kafka.Publisher
}

// NewActivities wires the order collaborators into the Temporal activities
// bundle. The service should be constructed without the audit decorator so
// the notify activity remains the single event emitter.
func NewActivities(service ordersports.Service, publisher kafka.Publisher) *Activities {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &Activities{service: service, publisher: publisher}
}

// MarkOrderPrepared completes a confirmed order and returns the updated aggregate.
func (a *Activities) MarkOrderPrepared(ctx context.Context, orderID int64) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order prepared activity not initialized", "orderId", orderID)
		return nil, errors.New("order prepared activity not initialized")
	}
	logger.Info("MarkOrderPrepared activity started", "orderId", orderID)
	order, err := a.service.MarkPrepared(ctx, orderID)
	if err != nil {
		// A repeated attempt after a partial failure finds the order already
		// prepared; treat that as success so the workflow stays idempotent.
		if errors.Is(err, domain.ErrInvalidTransition) {
			existing, getErr := a.service.GetOrder(ctx, orderID)
			if getErr == nil && existing.Status == domain.StatusPrepared {
				logger.Info("MarkOrderPrepared already applied", "orderId", orderID)
				return existing, nil
			}
		}
		logger.Error("MarkOrderPrepared activity failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("MarkOrderPrepared activity completed", "orderId", order.ID)
	return order, nil
}

// NotifyOrderPrepared publishes the audit event for a prepared order.
func (a *Activities) NotifyOrderPrepared(ctx context.Context, orderID int64) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("order notify activity not initialized", "orderId", orderID)
		return errors.New("order notify activity not initialized")
	}
	logger.Info("NotifyOrderPrepared activity started", "orderId", orderID)
	err := a.publisher.Publish(ctx, "order.prepared", strconv.FormatInt(orderID, 10), nil)
	if err != nil {
		logger.Error("NotifyOrderPrepared activity failed", "orderId", orderID, "error", err)
		return err
	}
	logger.Info("NotifyOrderPrepared activity completed", "orderId", orderID)
	return nil
}
