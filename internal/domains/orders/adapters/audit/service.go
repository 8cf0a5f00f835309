// Package audit decorates the orders service with audit event publishing.
// Events are emitted after a state change succeeds; a failed publish is
// swallowed by the publisher and never fails the request.
package audit

import (
	"context"
	"strconv"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
	"github.com/martagenovese/poldo/internal/platform/kafka"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventOrderPrepared  = "order.prepared"
	EventOrderCancelled = "order.cancelled"
)

// Service wraps an orders service and publishes lifecycle events.
type Service struct {
	inner     ports.Service
	publisher kafka.Publisher
}

func New(inner ports.Service, publisher kafka.Publisher) ports.Service {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &Service{inner: inner, publisher: publisher}
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderCreated, result)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.inner.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	return s.inner.ListOrders(ctx, filter)
}

func (s *Service) ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error) {
	result, err := s.inner.ConfirmOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderConfirmed, result)
	return result, nil
}

func (s *Service) MarkPrepared(ctx context.Context, id int64) (*domain.Order, error) {
	result, err := s.inner.MarkPrepared(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderPrepared, result)
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	if err := s.inner.CancelOrder(ctx, id); err != nil {
		return err
	}
	_ = s.publisher.Publish(ctx, EventOrderCancelled, strconv.FormatInt(id, 10), nil)
	return nil
}

func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int32) (*domain.Line, error) {
	return s.inner.AddLine(ctx, orderID, productID, quantity)
}

func (s *Service) RemoveLine(ctx context.Context, orderID, lineID int64) error {
	return s.inner.RemoveLine(ctx, orderID, lineID)
}

func (s *Service) MarkLinePrepared(ctx context.Context, lineID int64) error {
	return s.inner.MarkLinePrepared(ctx, lineID)
}

func (s *Service) AttachStudentOrders(ctx context.Context, input ports.AttachInput) (*domain.Order, error) {
	return s.inner.AttachStudentOrders(ctx, input)
}

func (s *Service) publish(ctx context.Context, eventType string, order *domain.Order) {
	if order == nil {
		return
	}
	_ = s.publisher.Publish(ctx, eventType, strconv.FormatInt(order.ID, 10), map[string]any{
		"kind":       string(order.Kind),
		"party":      order.Party,
		"shift_date": order.ShiftDate.Format("2006-01-02"),
		"shift_n":    order.ShiftN,
		"status":     string(order.Status),
		"lines":      len(order.Lines),
	})
}

var _ ports.Service = (*Service)(nil)
