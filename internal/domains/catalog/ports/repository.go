package ports

import (
	"context"
	"errors"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrDuplicate = errors.New("product already exists")
	// ErrInsufficient is returned by Reserve when availability cannot cover
	// the requested quantity.
	ErrInsufficient = errors.New("product availability insufficient")
)

// Repository persists catalog products.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	// Reserve atomically decrements availability by quantity when enough is
	// left; callers must treat ErrInsufficient as a sold-out signal.
	Reserve(ctx context.Context, id int64, quantity int32) error
	// Release returns previously reserved quantity to the pool.
	Release(ctx context.Context, id int64, quantity int32) error
}
