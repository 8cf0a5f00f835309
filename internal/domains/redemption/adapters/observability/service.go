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

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

const tracerName = "github.com/martagenovese/poldo/internal/domains/redemption/adapters/observability/service"

// Service decorates a redemption port with tracing, logging, and metrics.
// Token values never appear in logs or span attributes; the order ID is the
// only correlation handle.
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

// IssueToken mints a token with instrumentation.
func (s *Service) IssueToken(ctx context.Context, orderID int64, issuer string) (*domain.Token, error) {
	ctx, span := s.startSpan(ctx, "Service.IssueToken",
		attribute.Int64("order.id", orderID),
		attribute.String("token.issuer", issuer),
	)
	defer span.End()

	s.logInfo(ctx, "issuing pickup token", slog.Int64("order.id", orderID), slog.String("issuer", issuer))
	result, err := s.inner.IssueToken(ctx, orderID, issuer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to issue pickup token", slog.Int64("order.id", orderID))
	}
	s.metrics.recordIssued(ctx)
	s.logInfo(ctx, "pickup token issued", slog.Int64("order.id", result.OrderID))
	return result, nil
}

// Redeem marks a token as picked up with instrumentation.
func (s *Service) Redeem(ctx context.Context, value, redeemer string) (*domain.Token, error) {
	ctx, span := s.startSpan(ctx, "Service.Redeem", attribute.String("token.redeemer", redeemer))
	defer span.End()

	result, err := s.inner.Redeem(ctx, value, redeemer)
	if err != nil {
		s.metrics.recordRedeemFailed(ctx)
		return nil, s.handleError(ctx, span, err, "failed to redeem pickup token", slog.String("redeemer", redeemer))
	}
	s.metrics.recordRedeemed(ctx)
	s.logInfo(ctx, "pickup token redeemed", slog.Int64("order.id", result.OrderID), slog.String("redeemer", redeemer))
	return result, nil
}

// GetToken looks up a token by value.
func (s *Service) GetToken(ctx context.Context, value string) (*domain.Token, error) {
	ctx, span := s.startSpan(ctx, "Service.GetToken")
	defer span.End()

	result, err := s.inner.GetToken(ctx, value)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pickup token")
	}
	return result, nil
}

// GetOrderToken returns the latest token for an order.
func (s *Service) GetOrderToken(ctx context.Context, orderID int64) (*domain.Token, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrderToken", attribute.Int64("order.id", orderID))
	defer span.End()

	result, err := s.inner.GetOrderToken(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order token", slog.Int64("order.id", orderID))
	}
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
	tokensIssued  metric.Int64Counter
	redeemed      metric.Int64Counter
	redeemsFailed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	tokensIssued, _ := m.Int64Counter("redemption.service.issued", metric.WithDescription("Number of pickup tokens issued"))
	redeemed, _ := m.Int64Counter("redemption.service.redeemed", metric.WithDescription("Number of pickup tokens redeemed"))
	redeemsFailed, _ := m.Int64Counter("redemption.service.redeem_failed", metric.WithDescription("Number of rejected redemption attempts"))
	return serviceMetrics{
		tokensIssued:  tokensIssued,
		redeemed:      redeemed,
		redeemsFailed: redeemsFailed,
	}
}

func (m serviceMetrics) recordIssued(ctx context.Context) {
	addCounter(ctx, m.tokensIssued, 1)
}

func (m serviceMetrics) recordRedeemed(ctx context.Context) {
	addCounter(ctx, m.redeemed, 1)
}

func (m serviceMetrics) recordRedeemFailed(ctx context.Context) {
	addCounter(ctx, m.redeemsFailed, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
