package ports

import (
	"context"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
)

// Service exposes pickup token use cases to adapters.
type Service interface {
	IssueToken(ctx context.Context, orderID int64, issuer string) (*domain.Token, error)
	Redeem(ctx context.Context, value, redeemer string) (*domain.Token, error)
	GetToken(ctx context.Context, value string) (*domain.Token, error)
	GetOrderToken(ctx context.Context, orderID int64) (*domain.Token, error)
}
