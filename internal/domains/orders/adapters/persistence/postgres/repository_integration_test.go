//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
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

func draftOrder(t *testing.T, party string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(domain.KindStudent, party,
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), 1,
		time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	order.Lines = []domain.Line{{ProductID: 7, Quantity: 2}}
	return order
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusDraft, created.Status)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, int64(7), created.Lines[0].ProductID)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "mario.rossi", loaded.Party)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderRepository_DuplicateActiveOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, draftOrder(t, "mario.rossi"))
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	// cancellation clears the dedupe key, freeing the slot
	_, err = repo.Transition(ctx, first.ID, domain.StatusDraft, domain.StatusCancelled, time.Now().UTC())
	require.NoError(t, err)

	_, err = repo.Create(ctx, draftOrder(t, "mario.rossi"))
	assert.NoError(t, err)
}

func TestOrderRepository_TransitionConditional(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)

	confirmed, err := repo.Transition(ctx, created.ID, domain.StatusDraft, domain.StatusConfirmed, now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	// the stored status no longer matches the expected source state
	_, err = repo.Transition(ctx, created.ID, domain.StatusDraft, domain.StatusConfirmed, now)
	assert.ErrorIs(t, err, ports.ErrConflict)

	_, err = repo.Transition(ctx, 9999, domain.StatusDraft, domain.StatusConfirmed, now)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderRepository_PreparedCascadesToLines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	order := draftOrder(t, "3B")
	order.Lines = append(order.Lines, domain.Line{ProductID: 9, Quantity: 1})
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	_, err = repo.Transition(ctx, created.ID, domain.StatusDraft, domain.StatusConfirmed, now)
	require.NoError(t, err)
	prepared, err := repo.Transition(ctx, created.ID, domain.StatusConfirmed, domain.StatusPrepared, now)
	require.NoError(t, err)

	require.Len(t, prepared.Lines, 2)
	for _, line := range prepared.Lines {
		assert.True(t, line.Prepared)
	}
}

func TestOrderRepository_LinesLockedOutsideDraft(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)

	added, err := repo.AddLine(ctx, created.ID, domain.Line{ProductID: 9, Quantity: 1}, now)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	_, err = repo.Transition(ctx, created.ID, domain.StatusDraft, domain.StatusConfirmed, now)
	require.NoError(t, err)

	_, err = repo.AddLine(ctx, created.ID, domain.Line{ProductID: 11, Quantity: 1}, now)
	assert.ErrorIs(t, err, ports.ErrConflict)
	err = repo.RemoveLine(ctx, created.ID, added.ID, now)
	assert.ErrorIs(t, err, ports.ErrConflict)
}

func TestOrderRepository_MarkLinePreparedIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)
	lineID := created.Lines[0].ID

	require.NoError(t, repo.MarkLinePrepared(ctx, lineID, now))
	require.NoError(t, repo.MarkLinePrepared(ctx, lineID, now))

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Lines[0].Prepared)

	assert.ErrorIs(t, repo.MarkLinePrepared(ctx, 9999, now), ports.ErrNotFound)
}

func TestOrderRepository_ListFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, draftOrder(t, "mario.rossi"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, draftOrder(t, "luigi.verdi"))
	require.NoError(t, err)

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	all, err := repo.List(ctx, ports.Filter{ShiftDate: &date})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byParty, err := repo.List(ctx, ports.Filter{Party: "mario.rossi"})
	require.NoError(t, err)
	assert.Len(t, byParty, 1)

	drafts, err := repo.List(ctx, ports.Filter{Status: domain.StatusDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}
