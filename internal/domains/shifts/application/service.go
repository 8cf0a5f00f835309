package application

import (
	"context"
	"errors"
	"time"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
	"github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

// Service orchestrates shift registry use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if shift == nil {
		return nil, errors.New("shift is nil")
	}
	if err := shift.Validate(); err != nil {
		return nil, mapError(err)
	}
	shift.Date = domain.DateOf(shift.Date)
	return s.repo.Create(ctx, shift)
}

func (s *Service) GetShift(ctx context.Context, date time.Time, n int) (*domain.Shift, error) {
	return s.repo.Get(ctx, domain.DateOf(date), n)
}

func (s *Service) ListShifts(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	return s.repo.ListByDate(ctx, domain.DateOf(date))
}

func (s *Service) UpdateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if shift == nil {
		return nil, errors.New("shift is nil")
	}
	if err := shift.Validate(); err != nil {
		return nil, mapError(err)
	}
	shift.Date = domain.DateOf(shift.Date)
	return s.repo.Update(ctx, shift)
}

func (s *Service) DeleteShift(ctx context.Context, date time.Time, n int) error {
	return s.repo.Delete(ctx, domain.DateOf(date), n)
}

var _ ports.Service = (*Service)(nil)
