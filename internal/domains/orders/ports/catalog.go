package ports

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExhausted reports that availability cannot cover the
	// requested quantity.
	ErrProductExhausted = errors.New("product availability exhausted")
)

// ProductState is the slice of catalog state the order core needs.
type ProductState struct {
	ID           int64
	Active       bool
	Availability int32
}

// Catalog is the product collaborator consumed by the order core. The
// catalog owns availability accounting; the core only checks and reserves.
type Catalog interface {
	ProductState(ctx context.Context, id int64) (ProductState, error)
	Reserve(ctx context.Context, id int64, quantity int32) error
	Release(ctx context.Context, id int64, quantity int32) error
}
