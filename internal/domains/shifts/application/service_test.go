package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shiftsmemory "github.com/martagenovese/poldo/internal/domains/shifts/adapters/memory"
	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
	"github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

func sampleShift(t *testing.T, n int) *domain.Shift {
	t.Helper()
	shift, err := domain.NewShift(
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), n,
		domain.Window{From: domain.TimeOfDay{Hour: 8}, To: domain.TimeOfDay{Hour: 10}},
		domain.Window{From: domain.TimeOfDay{Hour: 11}, To: domain.TimeOfDay{Hour: 13}},
	)
	require.NoError(t, err)
	return shift
}

func TestCreateShift_NormalizesDate(t *testing.T) {
	svc := NewService(shiftsmemory.NewRepository())

	shift := sampleShift(t, 1)
	shift.Date = time.Date(2024, 5, 10, 17, 30, 0, 0, time.UTC)
	created, err := svc.CreateShift(context.Background(), shift)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), created.Date)

	loaded, err := svc.GetShift(context.Background(), time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	require.Equal(t, created.Date, loaded.Date)
}

func TestCreateShift_Duplicate(t *testing.T) {
	svc := NewService(shiftsmemory.NewRepository())

	_, err := svc.CreateShift(context.Background(), sampleShift(t, 1))
	require.NoError(t, err)
	_, err = svc.CreateShift(context.Background(), sampleShift(t, 1))
	require.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestCreateShift_InvalidWindow(t *testing.T) {
	svc := NewService(shiftsmemory.NewRepository())

	shift := sampleShift(t, 1)
	shift.Pickup.From = domain.TimeOfDay{Hour: 9}
	_, err := svc.CreateShift(context.Background(), shift)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListShifts_ByDate(t *testing.T) {
	svc := NewService(shiftsmemory.NewRepository())

	_, err := svc.CreateShift(context.Background(), sampleShift(t, 1))
	require.NoError(t, err)
	_, err = svc.CreateShift(context.Background(), sampleShift(t, 2))
	require.NoError(t, err)

	shifts, err := svc.ListShifts(context.Background(), time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	shifts, err = svc.ListShifts(context.Background(), time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, shifts)
}

func TestDeleteShift_NotFound(t *testing.T) {
	svc := NewService(shiftsmemory.NewRepository())
	err := svc.DeleteShift(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), 4)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
