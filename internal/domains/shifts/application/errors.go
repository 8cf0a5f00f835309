package application

import (
	"errors"
	"fmt"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
)

// ErrInvalidInput signals the request violated a shift invariant.
var ErrInvalidInput = errors.New("invalid shift input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidWindow) || errors.Is(err, domain.ErrInvalidNumber) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
