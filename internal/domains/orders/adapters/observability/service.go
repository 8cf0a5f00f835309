package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
)

const tracerName = "github.com/martagenovese/poldo/internal/domains/orders/adapters/observability/service"

// Service decorates an orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder places a draft order with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.String("order.kind", string(input.Kind)),
		attribute.String("order.party", input.Party),
		attribute.String("shift.date", input.ShiftDate.Format("2006-01-02")),
		attribute.Int("shift.n", input.ShiftN),
	)
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("kind", string(input.Kind)), slog.String("party", input.Party))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("party", input.Party))
	}
	s.metrics.recordCreated(ctx, result.Kind)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("kind", string(result.Kind)))
	return result, nil
}

// GetOrder loads a single order aggregate.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.Int64("order.id", id))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

// ListOrders lists orders matching the filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// ConfirmOrder locks the lines and reserves availability.
func (s *Service) ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ConfirmOrder", attribute.Int64("order.id", id))
	defer span.End()

	s.logInfo(ctx, "confirming order", slog.Int64("order.id", id))
	result, err := s.inner.ConfirmOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to confirm order", slog.Int64("order.id", id))
	}
	s.metrics.recordConfirmed(ctx, result.Kind)
	s.logInfo(ctx, "order confirmed", slog.Int64("order.id", result.ID), slog.Int("lines", len(result.Lines)))
	return result, nil
}

// MarkPrepared completes a confirmed order.
func (s *Service) MarkPrepared(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.MarkPrepared", attribute.Int64("order.id", id))
	defer span.End()

	s.logInfo(ctx, "marking order prepared", slog.Int64("order.id", id))
	result, err := s.inner.MarkPrepared(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark order prepared", slog.Int64("order.id", id))
	}
	s.metrics.recordPrepared(ctx, result.Kind)
	s.logInfo(ctx, "order prepared", slog.Int64("order.id", result.ID))
	return result, nil
}

// CancelOrder withdraws a draft order.
func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "Service.CancelOrder", attribute.Int64("order.id", id))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", id))
	if err := s.inner.CancelOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", id))
	return nil
}

// AddLine appends a line to a draft order.
func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int32) (*domain.Line, error) {
	ctx, span := s.startSpan(ctx, "Service.AddLine",
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
		attribute.Int("line.quantity", int(quantity)),
	)
	defer span.End()

	s.logInfo(ctx, "adding order line", slog.Int64("order.id", orderID), slog.Int64("product.id", productID))
	result, err := s.inner.AddLine(ctx, orderID, productID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add order line", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order line added", slog.Int64("order.id", orderID), slog.Int64("line.id", result.ID))
	return result, nil
}

// RemoveLine drops a line from a draft order.
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID int64) error {
	ctx, span := s.startSpan(ctx, "Service.RemoveLine",
		attribute.Int64("order.id", orderID),
		attribute.Int64("line.id", lineID),
	)
	defer span.End()

	s.logInfo(ctx, "removing order line", slog.Int64("order.id", orderID), slog.Int64("line.id", lineID))
	if err := s.inner.RemoveLine(ctx, orderID, lineID); err != nil {
		return s.handleError(ctx, span, err, "failed to remove order line", slog.Int64("order.id", orderID))
	}
	return nil
}

// MarkLinePrepared flags one line prepared.
func (s *Service) MarkLinePrepared(ctx context.Context, lineID int64) error {
	ctx, span := s.startSpan(ctx, "Service.MarkLinePrepared", attribute.Int64("line.id", lineID))
	defer span.End()

	if err := s.inner.MarkLinePrepared(ctx, lineID); err != nil {
		return s.handleError(ctx, span, err, "failed to mark line prepared", slog.Int64("line.id", lineID))
	}
	return nil
}

// AttachStudentOrders links student orders to a class order.
func (s *Service) AttachStudentOrders(ctx context.Context, input ports.AttachInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.AttachStudentOrders",
		attribute.Int64("order.class_id", input.ClassOrderID),
		attribute.Int("order.student_count", len(input.StudentOrderIDs)),
	)
	defer span.End()

	s.logInfo(ctx, "attaching student orders", slog.Int64("class_order.id", input.ClassOrderID), slog.Int("count", len(input.StudentOrderIDs)))
	result, err := s.inner.AttachStudentOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to attach student orders", slog.Int64("class_order.id", input.ClassOrderID))
	}
	s.logInfo(ctx, "student orders attached", slog.Int64("class_order.id", result.ID))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated   metric.Int64Counter
	ordersConfirmed metric.Int64Counter
	ordersPrepared  metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersConfirmed, _ := m.Int64Counter("orders.service.confirmed", metric.WithDescription("Number of orders confirmed"))
	ordersPrepared, _ := m.Int64Counter("orders.service.prepared", metric.WithDescription("Number of orders prepared"))
	ordersCancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	return serviceMetrics{
		ordersCreated:   ordersCreated,
		ordersConfirmed: ordersConfirmed,
		ordersPrepared:  ordersPrepared,
		ordersCancelled: ordersCancelled,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("order.kind", string(kind)))
}

func (m serviceMetrics) recordConfirmed(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersConfirmed, 1, attribute.String("order.kind", string(kind)))
}

func (m serviceMetrics) recordPrepared(ctx context.Context, kind domain.Kind) {
	addCounter(ctx, m.ordersPrepared, 1, attribute.String("order.kind", string(kind)))
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
