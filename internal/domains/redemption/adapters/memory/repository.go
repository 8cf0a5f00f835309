// Package memory provides an in-memory token repository for tests and local
// development. Redemption uses the same winner-takes-all semantics as the
// postgres adapter.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

type Repository struct {
	mu      sync.Mutex
	tokens  map[string]*domain.Token
	byOrder map[int64][]string
	live    map[int64]string
}

func NewRepository() *Repository {
	return &Repository{
		tokens:  make(map[string]*domain.Token),
		byOrder: make(map[int64][]string),
		live:    make(map[int64]string),
	}
}

func (r *Repository) Create(_ context.Context, token *domain.Token) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.live[token.OrderID]; taken {
		return nil, ports.ErrDuplicate
	}
	stored := clone(token)
	r.tokens[stored.Value] = stored
	r.byOrder[stored.OrderID] = append(r.byOrder[stored.OrderID], stored.Value)
	r.live[stored.OrderID] = stored.Value
	return clone(stored), nil
}

func (r *Repository) GetByValue(_ context.Context, value string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[value]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(stored), nil
}

func (r *Repository) GetByOrder(_ context.Context, orderID int64) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := r.byOrder[orderID]
	if len(values) == 0 {
		return nil, ports.ErrNotFound
	}
	return clone(r.tokens[values[len(values)-1]]), nil
}

func (r *Repository) Redeem(_ context.Context, value, redeemer string, now time.Time) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[value]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := stored.Redeem(redeemer, now); err != nil {
		return nil, err
	}
	delete(r.live, stored.OrderID)
	return clone(stored), nil
}

func clone(t *domain.Token) *domain.Token {
	out := *t
	if t.RedeemedAt != nil {
		at := *t.RedeemedAt
		out.RedeemedAt = &at
	}
	return &out
}

var _ ports.Repository = (*Repository)(nil)
