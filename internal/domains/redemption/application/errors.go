package application

import "errors"

var (
	// ErrOrderNotConfirmed reports an issue attempt against an order that is
	// not in the confirmed state.
	ErrOrderNotConfirmed = errors.New("order is not confirmed")
	// ErrTokenAlreadyIssued reports a second issue attempt while a live token
	// exists for the order.
	ErrTokenAlreadyIssued = errors.New("a pickup token was already issued for this order")
)
