package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
	"github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps shifts in process memory, used as dev/test fallback.
type Repository struct {
	mu     sync.RWMutex
	shifts map[string]*domain.Shift
}

func NewRepository() *Repository {
	return &Repository{shifts: map[string]*domain.Shift{}}
}

func key(date time.Time, n int) string {
	return fmt.Sprintf("%s/%d", domain.DateOf(date).Format("2006-01-02"), n)
}

func (r *Repository) Create(_ context.Context, shift *domain.Shift) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(shift.Date, shift.N)
	if _, ok := r.shifts[k]; ok {
		return nil, ports.ErrDuplicate
	}
	stored := *shift
	r.shifts[k] = &stored
	out := stored
	return &out, nil
}

func (r *Repository) Get(_ context.Context, date time.Time, n int) (*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shift, ok := r.shifts[key(date, n)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *shift
	return &out, nil
}

func (r *Repository) ListByDate(_ context.Context, date time.Time) ([]*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOf(date)
	var list []*domain.Shift
	for _, shift := range r.shifts {
		if shift.Date.Equal(day) {
			out := *shift
			list = append(list, &out)
		}
	}
	return list, nil
}

func (r *Repository) Update(_ context.Context, shift *domain.Shift) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(shift.Date, shift.N)
	if _, ok := r.shifts[k]; !ok {
		return nil, ports.ErrNotFound
	}
	stored := *shift
	r.shifts[k] = &stored
	out := stored
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, date time.Time, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(date, n)
	if _, ok := r.shifts[k]; !ok {
		return ports.ErrNotFound
	}
	delete(r.shifts, k)
	return nil
}
