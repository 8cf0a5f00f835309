// Package orders bridges the orders bounded context into the narrow order
// port the redemption core consumes.
package orders

import (
	"context"
	"errors"

	orderdomain "github.com/martagenovese/poldo/internal/domains/orders/domain"
	orderports "github.com/martagenovese/poldo/internal/domains/orders/ports"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

// Adapter exposes the orders service as a redemption ports.Orders.
type Adapter struct {
	orders orderports.Service
}

func New(orders orderports.Service) *Adapter {
	return &Adapter{orders: orders}
}

func (a *Adapter) State(ctx context.Context, id int64) (ports.OrderState, error) {
	order, err := a.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			return ports.OrderState{}, ports.ErrOrderNotFound
		}
		return ports.OrderState{}, err
	}
	return ports.OrderState{
		ID:        order.ID,
		Confirmed: order.Status == orderdomain.StatusConfirmed,
		Prepared:  order.Status == orderdomain.StatusPrepared,
		Active:    order.Active(),
	}, nil
}

var _ ports.Orders = (*Adapter)(nil)
