// Package audit decorates the redemption service with audit event
// publishing. Rejected redemption attempts are published too, since a burst
// of losers against one token is exactly what an operator wants to see.
package audit

import (
	"context"
	"errors"
	"strconv"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
	"github.com/martagenovese/poldo/internal/platform/kafka"
)

const (
	EventTokenIssued    = "qrcode.issued"
	EventTokenRedeemed  = "qrcode.redeemed"
	EventRedeemRejected = "qrcode.redeem_rejected"
)

// Service wraps a redemption service and publishes lifecycle events.
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

func (s *Service) IssueToken(ctx context.Context, orderID int64, issuer string) (*domain.Token, error) {
	token, err := s.inner.IssueToken(ctx, orderID, issuer)
	if err != nil {
		return nil, err
	}
	_ = s.publisher.Publish(ctx, EventTokenIssued, token.Value, map[string]any{
		"order_id": strconv.FormatInt(token.OrderID, 10),
		"issuer":   token.Issuer,
	})
	return token, nil
}

func (s *Service) Redeem(ctx context.Context, value, redeemer string) (*domain.Token, error) {
	token, err := s.inner.Redeem(ctx, value, redeemer)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRedeemed) {
			// the rejected attempt names its actor so a burst of losers
			// against one token can be traced back
			_ = s.publisher.Publish(ctx, EventRedeemRejected, value, map[string]any{
				"redeemer": redeemer,
			})
		}
		return nil, err
	}
	payload := map[string]any{
		"order_id": strconv.FormatInt(token.OrderID, 10),
		"redeemer": token.Redeemer,
	}
	if token.RedeemedAt != nil {
		payload["redeemed_at"] = token.RedeemedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	_ = s.publisher.Publish(ctx, EventTokenRedeemed, token.Value, payload)
	return token, nil
}

func (s *Service) GetToken(ctx context.Context, value string) (*domain.Token, error) {
	return s.inner.GetToken(ctx, value)
}

func (s *Service) GetOrderToken(ctx context.Context, orderID int64) (*domain.Token, error) {
	return s.inner.GetOrderToken(ctx, orderID)
}

var _ ports.Service = (*Service)(nil)
