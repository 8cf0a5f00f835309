package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	redemptionmemory "github.com/martagenovese/poldo/internal/domains/redemption/adapters/memory"
	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

var now = time.Date(2024, 5, 10, 11, 30, 0, 0, time.UTC)

const (
	issuer   = "gestore-1"
	redeemer = "cassa-1"
)

// fakeOrders serves order state from a fixed map.
type fakeOrders struct {
	states map[int64]ports.OrderState
}

func (f *fakeOrders) State(_ context.Context, id int64) (ports.OrderState, error) {
	state, ok := f.states[id]
	if !ok {
		return ports.OrderState{}, ports.ErrOrderNotFound
	}
	return state, nil
}

func newService(states map[int64]ports.OrderState) (*Service, *redemptionmemory.Repository) {
	repo := redemptionmemory.NewRepository()
	svc := NewService(repo, &fakeOrders{states: states},
		WithClock(func() time.Time { return now }))
	return svc, repo
}

func TestIssueToken(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: true, Active: true},
	})

	token, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)
	require.Equal(t, int64(1), token.OrderID)
	require.Equal(t, issuer, token.Issuer)
	require.Equal(t, now, token.IssuedAt)

	loaded, err := svc.GetOrderToken(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, token.Value, loaded.Value)
}

func TestIssueToken_PreparedOrder(t *testing.T) {
	// the kitchen may finish an order before the token is printed
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Prepared: true, Active: true},
	})

	token, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)
	require.Equal(t, int64(1), token.OrderID)
}

func TestIssueToken_OrderNotConfirmed(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: false, Active: true},
	})

	_, err := svc.IssueToken(context.Background(), 1, issuer)
	require.ErrorIs(t, err, ErrOrderNotConfirmed)
}

func TestIssueToken_MissingIssuer(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: true, Active: true},
	})

	_, err := svc.IssueToken(context.Background(), 1, "")
	require.ErrorIs(t, err, domain.ErrMissingActor)
}

func TestIssueToken_OrderNotFound(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.IssueToken(context.Background(), 7, issuer)
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestIssueToken_OnlyOneLivePerOrder(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: true, Active: true},
	})

	token, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)
	_, err = svc.IssueToken(context.Background(), 1, issuer)
	require.ErrorIs(t, err, ErrTokenAlreadyIssued)

	// a redeemed token no longer blocks reissue
	_, err = svc.Redeem(context.Background(), token.Value, redeemer)
	require.NoError(t, err)
	reissued, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)
	require.NotEqual(t, token.Value, reissued.Value)
}

func TestRedeem_InvalidValue(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.Redeem(context.Background(), "not-a-token", redeemer)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRedeem_MissingRedeemer(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.Redeem(context.Background(), "0123456789abcdef0123456789abcdef", "")
	require.ErrorIs(t, err, domain.ErrMissingActor)
}

func TestRedeem_UnknownToken(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.Redeem(context.Background(), "0123456789abcdef0123456789abcdef", redeemer)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRedeem_RecordsRedeemer(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: true, Active: true},
	})
	token, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)

	redeemed, err := svc.Redeem(context.Background(), token.Value, redeemer)
	require.NoError(t, err)
	require.Equal(t, redeemer, redeemed.Redeemer)
	require.NotNil(t, redeemed.RedeemedAt)
	require.Equal(t, now, *redeemed.RedeemedAt)
}

func TestRedeem_ExactlyOnce(t *testing.T) {
	svc, _ := newService(map[int64]ports.OrderState{
		1: {ID: 1, Confirmed: true, Active: true},
	})
	token, err := svc.IssueToken(context.Background(), 1, issuer)
	require.NoError(t, err)

	const scanners = 16
	var wg sync.WaitGroup
	errs := make([]error, scanners)
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(context.Background(), token.Value, redeemer)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, scanners-1, lost)

	redeemed, err := svc.GetToken(context.Background(), token.Value)
	require.NoError(t, err)
	require.True(t, redeemed.Redeemed)
	require.Equal(t, redeemer, redeemed.Redeemer)
	require.NotNil(t, redeemed.RedeemedAt)
}
