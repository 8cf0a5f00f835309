package ports

import (
	"context"
	"errors"
	"time"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
)

var (
	ErrNotFound = errors.New("pickup token not found")
	// ErrDuplicate reports that an unredeemed token already exists for the
	// order. Adapters must detect this atomically with the insert.
	ErrDuplicate = errors.New("a live pickup token already exists for the order")
)

// Repository persists pickup tokens.
type Repository interface {
	Create(ctx context.Context, token *domain.Token) (*domain.Token, error)
	GetByValue(ctx context.Context, value string) (*domain.Token, error)
	GetByOrder(ctx context.Context, orderID int64) (*domain.Token, error)
	// Redeem flips the token with a conditional update so exactly one caller
	// wins a concurrent race, recording the redeemer on the winning update.
	// Losers get domain.ErrAlreadyRedeemed.
	Redeem(ctx context.Context, value, redeemer string, now time.Time) (*domain.Token, error)
}
