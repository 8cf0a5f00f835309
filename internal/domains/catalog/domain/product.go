package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidName         = errors.New("product name must not be empty")
	ErrInvalidPrice        = errors.New("product price must not be negative")
	ErrInvalidAvailability = errors.New("product availability must not be negative")
)

// Product models a catalog entry owned by a canteen management account.
type Product struct {
	ID           int64
	Name         string
	Price        float64
	Description  string
	Availability int32
	Active       bool
	Temporary    bool
	OwnerID      int64
	Tags         []string
	Ingredients  []string
	LastUpdate   time.Time
}

// NewProduct validates and constructs a product.
func NewProduct(name string, price float64, description string, availability int32, ownerID int64) (*Product, error) {
	p := &Product{
		Name:         name,
		Price:        price,
		Description:  description,
		Availability: availability,
		Active:       true,
		OwnerID:      ownerID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Availability < 0 {
		return ErrInvalidAvailability
	}
	return nil
}

// Sellable reports whether the product can cover an order line of the given quantity.
func (p *Product) Sellable(quantity int32) bool {
	return p.Active && p.Availability >= quantity
}
