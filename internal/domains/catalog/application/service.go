package application

import (
	"context"
	"errors"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
	"github.com/martagenovese/poldo/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByID(ctx, product.ID); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) Reserve(ctx context.Context, id int64, quantity int32) error {
	if quantity <= 0 {
		return mapError(domain.ErrInvalidAvailability)
	}
	return s.repo.Reserve(ctx, id, quantity)
}

func (s *Service) Release(ctx context.Context, id int64, quantity int32) error {
	if quantity <= 0 {
		return mapError(domain.ErrInvalidAvailability)
	}
	return s.repo.Release(ctx, id, quantity)
}

var _ ports.Service = (*Service)(nil)
