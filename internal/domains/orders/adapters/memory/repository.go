// Package memory provides an in-memory order repository for tests and local
// development. It enforces the same uniqueness and conditional-update
// semantics as the postgres adapter.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
)

type Repository struct {
	mu         sync.Mutex
	orders     map[int64]*domain.Order
	active     map[string]int64
	nextID     int64
	nextLineID int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: make(map[int64]*domain.Order),
		active: make(map[string]int64),
	}
}

func activeKey(o *domain.Order) string {
	return fmt.Sprintf("%s/%d/%s/%s", o.ShiftDate.Format("2006-01-02"), o.ShiftN, o.Kind, o.Party)
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := activeKey(order)
	if _, taken := r.active[key]; taken {
		return nil, ports.ErrDuplicate
	}
	r.nextID++
	stored := clone(order)
	stored.ID = r.nextID
	for i := range stored.Lines {
		r.nextLineID++
		stored.Lines[i].ID = r.nextLineID
		stored.Lines[i].OrderID = stored.ID
	}
	r.orders[stored.ID] = stored
	r.active[key] = stored.ID
	return clone(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(stored), nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, stored := range r.orders {
		if filter.ShiftDate != nil && !stored.ShiftDate.Equal(*filter.ShiftDate) {
			continue
		}
		if filter.ShiftN != nil && stored.ShiftN != *filter.ShiftN {
			continue
		}
		if filter.Kind != "" && stored.Kind != filter.Kind {
			continue
		}
		if filter.Party != "" && stored.Party != filter.Party {
			continue
		}
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		out = append(out, clone(stored))
	}
	return out, nil
}

func (r *Repository) Transition(_ context.Context, id int64, from, to domain.Status, now time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status != from {
		return nil, ports.ErrConflict
	}
	stored.Status = to
	stored.LastUpdate = now
	if to == domain.StatusPrepared {
		for i := range stored.Lines {
			stored.Lines[i].Prepared = true
		}
	}
	if to == domain.StatusCancelled {
		delete(r.active, activeKey(stored))
	}
	return clone(stored), nil
}

func (r *Repository) AddLine(_ context.Context, orderID int64, line domain.Line, now time.Time) (*domain.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status != domain.StatusDraft {
		return nil, ports.ErrConflict
	}
	r.nextLineID++
	line.ID = r.nextLineID
	line.OrderID = orderID
	stored.Lines = append(stored.Lines, line)
	stored.LastUpdate = now
	out := line
	return &out, nil
}

func (r *Repository) RemoveLine(_ context.Context, orderID, lineID int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	if stored.Status != domain.StatusDraft {
		return ports.ErrConflict
	}
	for i := range stored.Lines {
		if stored.Lines[i].ID == lineID {
			stored.Lines = append(stored.Lines[:i], stored.Lines[i+1:]...)
			stored.LastUpdate = now
			return nil
		}
	}
	return ports.ErrNotFound
}

func (r *Repository) MarkLinePrepared(_ context.Context, lineID int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.orders {
		for i := range stored.Lines {
			if stored.Lines[i].ID == lineID {
				if !stored.Lines[i].Prepared {
					stored.Lines[i].Prepared = true
					stored.LastUpdate = now
				}
				return nil
			}
		}
	}
	return ports.ErrNotFound
}

func (r *Repository) AttachStudentOrders(_ context.Context, classOrderID int64, studentOrderIDs []int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[classOrderID]; !ok {
		return ports.ErrNotFound
	}
	for _, sid := range studentOrderIDs {
		stored, ok := r.orders[sid]
		if !ok {
			return ports.ErrNotFound
		}
		id := classOrderID
		stored.ClassOrderID = &id
		stored.LastUpdate = now
	}
	return nil
}

func clone(o *domain.Order) *domain.Order {
	out := *o
	out.Lines = append([]domain.Line(nil), o.Lines...)
	if o.ClassOrderID != nil {
		id := *o.ClassOrderID
		out.ClassOrderID = &id
	}
	return &out
}

var _ ports.Repository = (*Repository)(nil)
