// Package catalog bridges the catalog bounded context into the narrow
// product port the order core consumes.
package catalog

import (
	"context"
	"errors"

	catalogports "github.com/martagenovese/poldo/internal/domains/catalog/ports"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
)

// Adapter exposes the catalog service as an orders ports.Catalog.
type Adapter struct {
	products catalogports.Service
}

func New(products catalogports.Service) *Adapter {
	return &Adapter{products: products}
}

func (a *Adapter) ProductState(ctx context.Context, id int64) (ports.ProductState, error) {
	product, err := a.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return ports.ProductState{}, ports.ErrProductNotFound
		}
		return ports.ProductState{}, err
	}
	return ports.ProductState{
		ID:           product.ID,
		Active:       product.Active,
		Availability: product.Availability,
	}, nil
}

func (a *Adapter) Reserve(ctx context.Context, id int64, quantity int32) error {
	err := a.products.Reserve(ctx, id, quantity)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogports.ErrNotFound):
		return ports.ErrProductNotFound
	case errors.Is(err, catalogports.ErrInsufficient):
		return ports.ErrProductExhausted
	default:
		return err
	}
}

func (a *Adapter) Release(ctx context.Context, id int64, quantity int32) error {
	err := a.products.Release(ctx, id, quantity)
	if errors.Is(err, catalogports.ErrNotFound) {
		return ports.ErrProductNotFound
	}
	return err
}

var _ ports.Catalog = (*Adapter)(nil)
