package ports

import (
	"context"
	"errors"
	"time"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicate reports that an active order already exists for the same
	// (shift, party) pair. Adapters must detect this atomically with the
	// insert so concurrent submissions cannot both pass the check.
	ErrDuplicate = errors.New("active order already exists for shift and party")
	// ErrConflict reports that a conditional update lost against a concurrent
	// state change; callers reinterpret it against the reloaded aggregate.
	ErrConflict = errors.New("order was modified concurrently")
)

// Filter narrows order listings. Zero values are ignored.
type Filter struct {
	ShiftDate *time.Time
	ShiftN    *int
	Kind      domain.Kind
	Party     string
	Status    domain.Status
}

// Repository persists orders and their lines.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter Filter) ([]*domain.Order, error)
	// Transition updates the status only when the stored status equals from,
	// refreshing lastUpdate. Transitioning to prepared cascades the prepared
	// flag to all lines; transitioning to cancelled releases the uniqueness
	// key so a new order may be placed for the same shift and party.
	Transition(ctx context.Context, id int64, from, to domain.Status, now time.Time) (*domain.Order, error)
	// AddLine appends a line while the stored order is still a draft.
	AddLine(ctx context.Context, orderID int64, line domain.Line, now time.Time) (*domain.Line, error)
	// RemoveLine drops a line while the stored order is still a draft.
	RemoveLine(ctx context.Context, orderID, lineID int64, now time.Time) error
	// MarkLinePrepared flags one line prepared; already-prepared lines are a no-op.
	MarkLinePrepared(ctx context.Context, lineID int64, now time.Time) error
	// AttachStudentOrders links the given student orders to a class order.
	AttachStudentOrders(ctx context.Context, classOrderID int64, studentOrderIDs []int64, now time.Time) error
}
