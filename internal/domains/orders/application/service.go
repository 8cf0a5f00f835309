package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
	shiftdomain "github.com/martagenovese/poldo/internal/domains/shifts/domain"
	shiftports "github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

// Service orchestrates the order lifecycle. Uniqueness and state transition
// races are settled by the repository; the service re-runs the domain checks
// on the loaded aggregate so callers get precise errors in the common case.
type Service struct {
	repo    ports.Repository
	shifts  shiftports.Service
	catalog ports.Catalog
	now     func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithClock replaces the wall clock, letting tests pin the ordering window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo ports.Repository, shifts shiftports.Service, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, shifts: shifts, catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder places a draft order for the given shift. The shift's ordering
// window must cover the current instant, and at most one active order may
// exist per shift and party.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	shift, err := s.shifts.GetShift(ctx, input.ShiftDate, input.ShiftN)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !shift.OrderWindowOpenAt(now) {
		return nil, fmt.Errorf("%w: window %s-%s on %s", ErrShiftClosed,
			shift.Order.From, shift.Order.To, shift.Date.Format("2006-01-02"))
	}
	order, err := domain.NewOrder(input.Kind, input.Party, shift.Date, shift.N, now)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, ErrDuplicateOrder
		}
		return nil, err
	}
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	if filter.ShiftDate != nil {
		date := shiftdomain.DateOf(*filter.ShiftDate)
		filter.ShiftDate = &date
	}
	return s.repo.List(ctx, filter)
}

// ConfirmOrder locks the lines and reserves catalog availability for each of
// them. Reservations already taken are released when a later line cannot be
// covered or the status update loses a race.
func (s *Service) ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := order.Confirm(now); err != nil {
		return nil, mapError(err)
	}
	reserved := make([]domain.Line, 0, len(order.Lines))
	for _, line := range order.Lines {
		if err := s.catalog.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			s.releaseLines(ctx, reserved)
			if errors.Is(err, ports.ErrProductExhausted) || errors.Is(err, ports.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
			}
			return nil, err
		}
		reserved = append(reserved, line)
	}
	updated, err := s.repo.Transition(ctx, id, domain.StatusDraft, domain.StatusConfirmed, now)
	if err != nil {
		s.releaseLines(ctx, reserved)
		if errors.Is(err, ports.ErrConflict) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}

// MarkPrepared completes a confirmed order and cascades the prepared flag to
// every line.
func (s *Service) MarkPrepared(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := order.MarkPrepared(now); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.Transition(ctx, id, domain.StatusConfirmed, domain.StatusPrepared, now)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}

// CancelOrder withdraws a draft order, releasing the shift+party slot.
func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	if err := order.Cancel(now); err != nil {
		return mapError(err)
	}
	if _, err := s.repo.Transition(ctx, id, domain.StatusDraft, domain.StatusCancelled, now); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return domain.ErrInvalidTransition
		}
		return err
	}
	return nil
}

// AddLine appends a product to a draft order after checking the catalog can
// plausibly cover it. The definitive availability check happens at
// confirmation, when quantities are reserved.
func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int32) (*domain.Line, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	line, err := order.AddLine(productID, quantity, now)
	if err != nil {
		return nil, mapError(err)
	}
	state, err := s.catalog.ProductState(ctx, productID)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, productID)
		}
		return nil, err
	}
	if !state.Active || state.Availability < quantity {
		return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, productID)
	}
	created, err := s.repo.AddLine(ctx, orderID, *line, now)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return nil, domain.ErrOrderLocked
		}
		return nil, err
	}
	return created, nil
}

// RemoveLine drops a line from a draft order.
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID int64) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	now := s.now()
	if err := order.RemoveLine(lineID, now); err != nil {
		return mapError(err)
	}
	if err := s.repo.RemoveLine(ctx, orderID, lineID, now); err != nil {
		switch {
		case errors.Is(err, ports.ErrConflict):
			return domain.ErrOrderLocked
		case errors.Is(err, ports.ErrNotFound):
			return domain.ErrLineNotFound
		default:
			return err
		}
	}
	return nil
}

// MarkLinePrepared flags one line prepared. Repeating the call is a no-op.
func (s *Service) MarkLinePrepared(ctx context.Context, lineID int64) error {
	return s.repo.MarkLinePrepared(ctx, lineID, s.now())
}

// AttachStudentOrders links student orders to an aggregating class order.
// Every student order must be active, of student kind, bound to the same
// shift, and not already attached elsewhere.
func (s *Service) AttachStudentOrders(ctx context.Context, input ports.AttachInput) (*domain.Order, error) {
	if len(input.StudentOrderIDs) == 0 {
		return nil, fmt.Errorf("%w: no student orders given", ErrInvalidInput)
	}
	class, err := s.repo.GetByID(ctx, input.ClassOrderID)
	if err != nil {
		return nil, err
	}
	if class.Kind != domain.KindClass {
		return nil, fmt.Errorf("%w: order %d is not a class order", ErrInvalidInput, class.ID)
	}
	if !class.Active() {
		return nil, fmt.Errorf("%w: class order %d is cancelled", ErrInvalidInput, class.ID)
	}
	for _, sid := range input.StudentOrderIDs {
		student, err := s.repo.GetByID(ctx, sid)
		if err != nil {
			return nil, err
		}
		switch {
		case student.Kind != domain.KindStudent:
			return nil, fmt.Errorf("%w: order %d is not a student order", ErrInvalidInput, sid)
		case !student.Active():
			return nil, fmt.Errorf("%w: order %d is cancelled", ErrInvalidInput, sid)
		case !student.ShiftDate.Equal(class.ShiftDate) || student.ShiftN != class.ShiftN:
			return nil, fmt.Errorf("%w: order %d belongs to a different shift", ErrInvalidInput, sid)
		case student.ClassOrderID != nil && *student.ClassOrderID != class.ID:
			return nil, fmt.Errorf("%w: order %d is attached to another class order", ErrInvalidInput, sid)
		}
	}
	if err := s.repo.AttachStudentOrders(ctx, class.ID, input.StudentOrderIDs, s.now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, class.ID)
}

func (s *Service) releaseLines(ctx context.Context, lines []domain.Line) {
	for _, line := range lines {
		_ = s.catalog.Release(ctx, line.ProductID, line.Quantity)
	}
}

var _ ports.Service = (*Service)(nil)
