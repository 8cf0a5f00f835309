package domain

import (
	"errors"
	"time"
)

// Kind distinguishes who places an order.
type Kind string

const (
	KindClass   Kind = "class"
	KindStudent Kind = "student"
	KindStaff   Kind = "staff"
)

// Status enumerates order lifecycle states.
//
// draft --confirm--> confirmed --prepare--> prepared
// draft --cancel---> cancelled
//
// prepared and cancelled are terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusPrepared  Status = "prepared"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidKind       = errors.New("order kind is invalid")
	ErrInvalidParty      = errors.New("ordering party must not be empty")
	ErrInvalidTransition = errors.New("order state transition is invalid")
	ErrEmptyOrder        = errors.New("order has no lines")
	ErrOrderLocked       = errors.New("order lines are locked after confirmation")
	ErrInvalidQuantity   = errors.New("line quantity must be greater than zero")
	ErrLineNotFound      = errors.New("order line not found")
)

// Line is one product+quantity entry within an order. Prepared is tracked
// per line so the kitchen can fulfil orders incrementally.
type Line struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	Prepared  bool
}

// Order is a purchase request tied to a shift, placed by a class, a student,
// or a staff account. The order exclusively owns its lines.
type Order struct {
	ID           int64
	Kind         Kind
	Party        string
	ShiftDate    time.Time
	ShiftN       int
	ClassOrderID *int64
	Status       Status
	LastUpdate   time.Time
	Lines        []Line
}

// NewOrder constructs a draft order bound to the given shift.
func NewOrder(kind Kind, party string, shiftDate time.Time, shiftN int, now time.Time) (*Order, error) {
	if !isValidKind(kind) {
		return nil, ErrInvalidKind
	}
	if party == "" {
		return nil, ErrInvalidParty
	}
	return &Order{
		Kind:       kind,
		Party:      party,
		ShiftDate:  shiftDate,
		ShiftN:     shiftN,
		Status:     StatusDraft,
		LastUpdate: now,
	}, nil
}

// Active reports whether the order still counts toward the
// one-order-per-shift-and-party uniqueness invariant.
func (o *Order) Active() bool { return o.Status != StatusCancelled }

// Confirm transitions draft -> confirmed. Orders with no lines are rejected.
func (o *Order) Confirm(now time.Time) error {
	if o.Status != StatusDraft {
		return ErrInvalidTransition
	}
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}
	o.Status = StatusConfirmed
	o.LastUpdate = now
	return nil
}

// MarkPrepared transitions confirmed -> prepared and cascades the prepared
// flag to every line.
func (o *Order) MarkPrepared(now time.Time) error {
	if o.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	o.Status = StatusPrepared
	for i := range o.Lines {
		o.Lines[i].Prepared = true
	}
	o.LastUpdate = now
	return nil
}

// Cancel transitions draft -> cancelled. Confirmed orders cannot be cancelled.
func (o *Order) Cancel(now time.Time) error {
	if o.Status != StatusDraft {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	o.LastUpdate = now
	return nil
}

// AddLine appends a line while the order is still a draft.
func (o *Order) AddLine(productID int64, quantity int32, now time.Time) (*Line, error) {
	if o.Status != StatusDraft {
		return nil, ErrOrderLocked
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	line := Line{OrderID: o.ID, ProductID: productID, Quantity: quantity}
	o.Lines = append(o.Lines, line)
	o.LastUpdate = now
	return &o.Lines[len(o.Lines)-1], nil
}

// RemoveLine drops a line while the order is still a draft.
func (o *Order) RemoveLine(lineID int64, now time.Time) error {
	if o.Status != StatusDraft {
		return ErrOrderLocked
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.LastUpdate = now
			return nil
		}
	}
	return ErrLineNotFound
}

// MarkLinePrepared flags a single line as prepared. Marking an
// already-prepared line is a no-op, not an error.
func (o *Order) MarkLinePrepared(lineID int64, now time.Time) error {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			if !o.Lines[i].Prepared {
				o.Lines[i].Prepared = true
				o.LastUpdate = now
			}
			return nil
		}
	}
	return ErrLineNotFound
}

func isValidKind(kind Kind) bool {
	switch kind {
	case KindClass, KindStudent, KindStaff:
		return true
	default:
		return false
	}
}
