package memory

import (
	"context"
	"sync"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
	"github.com/martagenovese/poldo/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps products in process memory, used as dev/test fallback.
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{nextID: 1, products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	stored := clone(product)
	r.products[product.ID] = stored
	return clone(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(product), nil
}

func (r *Repository) List(_ context.Context, activeOnly bool) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Product
	for _, product := range r.products {
		if activeOnly && !product.Active {
			continue
		}
		list = append(list, clone(product))
	}
	return list, nil
}

func (r *Repository) Reserve(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	// same contract as the postgres conditional update: inactive products
	// cannot cover a reservation either
	if !product.Active || product.Availability < quantity {
		return ports.ErrInsufficient
	}
	product.Availability -= quantity
	return nil
}

func (r *Repository) Release(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	product.Availability += quantity
	return nil
}

func clone(product *domain.Product) *domain.Product {
	out := *product
	out.Tags = append([]string(nil), product.Tags...)
	out.Ingredients = append([]string(nil), product.Ingredients...)
	return &out
}
