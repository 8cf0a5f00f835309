package ports

import (
	"context"
	"errors"
)

// ErrOrderNotFound reports that the order backing a token does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderState is the slice of order state the redemption core needs. Confirmed
// and Prepared are distinct flags because a token may be issued in either
// state; the kitchen often finishes an order before the kiosk prints the code.
type OrderState struct {
	ID        int64
	Confirmed bool
	Prepared  bool
	Active    bool
}

// Orders is the order collaborator consumed by the redemption core.
type Orders interface {
	State(ctx context.Context, id int64) (OrderState, error)
}
