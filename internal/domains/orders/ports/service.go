package ports

import (
	"context"
	"time"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
)

// CreateOrderInput carries the parameters for placing a new draft order.
type CreateOrderInput struct {
	Kind      domain.Kind
	Party     string
	ShiftDate time.Time
	ShiftN    int
}

// AttachInput links student orders to an aggregating class order.
type AttachInput struct {
	ClassOrderID    int64
	StudentOrderIDs []int64
}

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter Filter) ([]*domain.Order, error)
	ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error)
	MarkPrepared(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	AddLine(ctx context.Context, orderID, productID int64, quantity int32) (*domain.Line, error)
	RemoveLine(ctx context.Context, orderID, lineID int64) error
	MarkLinePrepared(ctx context.Context, lineID int64) error
	AttachStudentOrders(ctx context.Context, input AttachInput) (*domain.Order, error)
}
