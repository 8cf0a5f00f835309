package application

import (
	"errors"
	"fmt"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput wraps domain validation failures so transports can
	// answer with a client error.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrShiftClosed reports that the shift's ordering window does not cover
	// the current instant.
	ErrShiftClosed = errors.New("ordering window for the shift is closed")
	// ErrDuplicateOrder reports a second active order for the same shift and party.
	ErrDuplicateOrder = errors.New("an active order already exists for this shift and party")
	// ErrProductUnavailable reports an inactive product or insufficient availability.
	ErrProductUnavailable = errors.New("product cannot cover the requested quantity")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidParty),
		errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
