package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDo_NoRetryOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), time.Millisecond, Transient, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestDo_NoRetryOnPermanentError(t *testing.T) {
	boom := errors.New("order not found")
	calls := 0
	err := Do(context.Background(), time.Millisecond, Transient, func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestDo_RetriesTransientOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), time.Millisecond, Transient, func() error {
		calls++
		if calls == 1 {
			return driver.ErrBadConn
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestDo_PersistentTransientBecomesUnavailable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), time.Millisecond, Transient, func() error {
		calls++
		return errors.New("deadlock detected")
	})
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 2, calls)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, time.Minute, Transient, func() error {
		return driver.ErrBadConn
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransient(t *testing.T) {
	require.False(t, Transient(nil))
	require.False(t, Transient(errors.New("duplicate key value")))
	require.True(t, Transient(driver.ErrBadConn))
	require.True(t, Transient(errors.New("read tcp: connection reset by peer")))
	require.True(t, Transient(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
	require.True(t, Transient(errors.New("pq: could not serialize access due to a serialization failure")))
}
