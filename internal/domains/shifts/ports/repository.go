package ports

import (
	"context"
	"errors"
	"time"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
)

var (
	ErrNotFound  = errors.New("shift not found")
	ErrDuplicate = errors.New("shift already exists")
)

// Repository persists shifts keyed by (date, n).
type Repository interface {
	Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	Get(ctx context.Context, date time.Time, n int) (*domain.Shift, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error)
	Update(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	Delete(ctx context.Context, date time.Time, n int) error
}
