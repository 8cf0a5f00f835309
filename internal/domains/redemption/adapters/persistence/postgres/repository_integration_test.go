//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
	"github.com/martagenovese/poldo/internal/domains/redemption/ports"
	"github.com/martagenovese/poldo/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("poldo_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func mintToken(t *testing.T, orderID int64) *domain.Token {
	t.Helper()
	token, err := domain.NewToken(orderID, "gestore-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	return token
}

func TestTokenRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, mintToken(t, 42))
	require.NoError(t, err)
	assert.False(t, created.Redeemed)

	loaded, err := repo.GetByValue(ctx, created.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), loaded.OrderID)
	assert.Equal(t, "gestore-1", loaded.Issuer)

	byOrder, err := repo.GetByOrder(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, created.Value, byOrder.Value)

	_, err = repo.GetByValue(ctx, "0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTokenRepository_OneLiveTokenPerOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, mintToken(t, 42))
	require.NoError(t, err)

	_, err = repo.Create(ctx, mintToken(t, 42))
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	// redemption clears order_key, so a replacement token can be issued
	_, err = repo.Redeem(ctx, first.Value, "cassa-1", time.Now().UTC())
	require.NoError(t, err)

	_, err = repo.Create(ctx, mintToken(t, 42))
	assert.NoError(t, err)
}

func TestTokenRepository_RedeemWinnerTakesAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, mintToken(t, 42))
	require.NoError(t, err)

	redeemed, err := repo.Redeem(ctx, created.Value, "cassa-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
	assert.Equal(t, "cassa-1", redeemed.Redeemer)
	assert.NotNil(t, redeemed.RedeemedAt)

	_, err = repo.Redeem(ctx, created.Value, "cassa-2", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)

	// the loser never overwrites the winning redeemer
	loaded, err := repo.GetByValue(ctx, created.Value)
	require.NoError(t, err)
	assert.Equal(t, "cassa-1", loaded.Redeemer)

	_, err = repo.Redeem(ctx, "0123456789abcdef0123456789abcdef", "cassa-1", time.Now().UTC())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTokenRepository_ConcurrentRedeem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, mintToken(t, 42))
	require.NoError(t, err)

	const scanners = 8
	var wg sync.WaitGroup
	errs := make([]error, scanners)
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Redeem(ctx, created.Value, "cassa-1", time.Now().UTC())
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
		}
	}
	assert.Equal(t, 1, won)
}
