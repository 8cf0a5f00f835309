package application

import (
	"context"
	"errors"
	"time"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

// Service orchestrates pickup token use cases. The exactly-once redemption
// guarantee is delegated to the repository's conditional update; this layer
// only validates input and maps collaborator state to precise errors.
type Service struct {
	repo   ports.Repository
	orders ports.Orders
	now    func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithClock replaces the wall clock used for issue and redeem timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo ports.Repository, orders ports.Orders, opts ...Option) *Service {
	s := &Service{repo: repo, orders: orders, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueToken mints a single-use token for a confirmed or prepared order. At
// most one unredeemed token may exist per order at any time.
func (s *Service) IssueToken(ctx context.Context, orderID int64, issuer string) (*domain.Token, error) {
	state, err := s.orders.State(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !state.Confirmed && !state.Prepared {
		return nil, ErrOrderNotConfirmed
	}
	token, err := domain.NewToken(orderID, issuer, s.now())
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, ErrTokenAlreadyIssued
		}
		return nil, err
	}
	return created, nil
}

// Redeem marks the token as picked up by the given account. Exactly one of
// any set of concurrent calls succeeds; every other caller gets
// domain.ErrAlreadyRedeemed.
func (s *Service) Redeem(ctx context.Context, value, redeemer string) (*domain.Token, error) {
	if err := domain.ValidateValue(value); err != nil {
		return nil, err
	}
	if redeemer == "" {
		return nil, domain.ErrMissingActor
	}
	return s.repo.Redeem(ctx, value, redeemer, s.now())
}

// GetToken looks up a token by its value.
func (s *Service) GetToken(ctx context.Context, value string) (*domain.Token, error) {
	if err := domain.ValidateValue(value); err != nil {
		return nil, err
	}
	return s.repo.GetByValue(ctx, value)
}

// GetOrderToken returns the most recent token issued for an order.
func (s *Service) GetOrderToken(ctx context.Context, orderID int64) (*domain.Token, error) {
	return s.repo.GetByOrder(ctx, orderID)
}

var _ ports.Service = (*Service)(nil)
