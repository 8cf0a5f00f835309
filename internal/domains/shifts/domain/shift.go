package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWindow = errors.New("shift windows are inconsistent")
	ErrInvalidNumber = errors.New("shift number must not be negative")
)

// TimeOfDay is a minute-resolution wall-clock value, matching the TIME
// columns of the shift table.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS"; seconds are discarded.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(value, "%d:%d:%d", &h, &m, &s); err != nil {
		if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", value)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", value)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// TimeOfDayFrom truncates a timestamp to its wall-clock component.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes() < other.minutes() }

func (t TimeOfDay) After(other TimeOfDay) bool { return t.minutes() > other.minutes() }

// Window is a [From, To] interval within one day, inclusive on both ends.
type Window struct {
	From TimeOfDay
	To   TimeOfDay
}

// Contains reports whether the wall-clock component of t falls inside the window.
func (w Window) Contains(t TimeOfDay) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Shift is a dated, numbered ordering/pickup window ("Turno"). Identity is
// the (Date, N) composite key.
type Shift struct {
	Date   time.Time
	N      int
	Order  Window
	Pickup Window
}

// NewShift validates and constructs a shift. The date component is
// normalized to midnight UTC so composite-key comparisons are stable.
func NewShift(date time.Time, n int, order, pickup Window) (*Shift, error) {
	s := &Shift{Date: DateOf(date), N: n, Order: order, Pickup: pickup}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate enforces orderOpen < orderClose <= pickupOpen < pickupClose.
func (s *Shift) Validate() error {
	if s.N < 0 {
		return ErrInvalidNumber
	}
	if !s.Order.From.Before(s.Order.To) {
		return ErrInvalidWindow
	}
	if s.Pickup.From.Before(s.Order.To) {
		return ErrInvalidWindow
	}
	if !s.Pickup.From.Before(s.Pickup.To) {
		return ErrInvalidWindow
	}
	return nil
}

// OrderWindowOpenAt reports whether orders may be placed at the given instant.
func (s *Shift) OrderWindowOpenAt(t time.Time) bool {
	if !DateOf(t).Equal(s.Date) {
		return false
	}
	return s.Order.Contains(TimeOfDayFrom(t))
}

// PickupWindowOpenAt reports whether the pickup window is open at the given instant.
func (s *Shift) PickupWindowOpenAt(t time.Time) bool {
	if !DateOf(t).Equal(s.Date) {
		return false
	}
	return s.Pickup.Contains(TimeOfDayFrom(t))
}

// DateOf strips the clock component, keeping only the calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
