package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	parsed, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	require.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, parsed)

	parsed, err = ParseTimeOfDay("12:15:45")
	require.NoError(t, err)
	require.Equal(t, TimeOfDay{Hour: 12, Minute: 15}, parsed)

	_, err = ParseTimeOfDay("25:00")
	require.Error(t, err)

	_, err = ParseTimeOfDay("not-a-time")
	require.Error(t, err)
}

func TestNewShift_RejectsInconsistentWindows(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	order := Window{From: TimeOfDay{8, 0}, To: TimeOfDay{10, 0}}
	pickup := Window{From: TimeOfDay{11, 0}, To: TimeOfDay{13, 0}}

	_, err := NewShift(date, 1, order, pickup)
	require.NoError(t, err)

	_, err = NewShift(date, -1, order, pickup)
	require.ErrorIs(t, err, ErrInvalidNumber)

	// order window closes before it opens
	_, err = NewShift(date, 1, Window{From: TimeOfDay{10, 0}, To: TimeOfDay{8, 0}}, pickup)
	require.ErrorIs(t, err, ErrInvalidWindow)

	// pickup opens before ordering closes
	_, err = NewShift(date, 1, order, Window{From: TimeOfDay{9, 0}, To: TimeOfDay{13, 0}})
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestOrderWindowOpenAt_InclusiveBounds(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	shift, err := NewShift(date, 1,
		Window{From: TimeOfDay{8, 0}, To: TimeOfDay{10, 0}},
		Window{From: TimeOfDay{11, 0}, To: TimeOfDay{13, 0}})
	require.NoError(t, err)

	require.True(t, shift.OrderWindowOpenAt(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)))
	require.True(t, shift.OrderWindowOpenAt(time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)))
	require.False(t, shift.OrderWindowOpenAt(time.Date(2024, 5, 10, 7, 59, 0, 0, time.UTC)))
	require.False(t, shift.OrderWindowOpenAt(time.Date(2024, 5, 10, 10, 1, 0, 0, time.UTC)))
	// right time, wrong day
	require.False(t, shift.OrderWindowOpenAt(time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC)))
}

func TestDateOf_StripsClock(t *testing.T) {
	instant := time.Date(2024, 5, 10, 17, 42, 3, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), DateOf(instant))
}
