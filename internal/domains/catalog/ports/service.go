package ports

import (
	"context"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	Reserve(ctx context.Context, id int64, quantity int32) error
	Release(ctx context.Context, id int64, quantity int32) error
}
