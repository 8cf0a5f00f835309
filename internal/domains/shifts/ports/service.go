package ports

import (
	"context"
	"time"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
)

// Service exposes shift registry use cases to adapters.
type Service interface {
	CreateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	GetShift(ctx context.Context, date time.Time, n int) (*domain.Shift, error)
	ListShifts(ctx context.Context, date time.Time) ([]*domain.Shift, error)
	UpdateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	DeleteShift(ctx context.Context, date time.Time, n int) error
}
