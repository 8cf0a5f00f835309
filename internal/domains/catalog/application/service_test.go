package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/martagenovese/poldo/internal/domains/catalog/adapters/memory"
	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
	"github.com/martagenovese/poldo/internal/domains/catalog/ports"
)

func newService() *Service {
	return NewService(catalogmemory.NewRepository())
}

func addProduct(t *testing.T, svc *Service, name string, availability int32) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, 2.50, "", availability, 1)
	require.NoError(t, err)
	created, err := svc.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	return created
}

func TestCreateProduct(t *testing.T) {
	svc := newService()

	created := addProduct(t, svc, "pizza", 10)
	require.NotZero(t, created.ID)
	require.True(t, created.Active)

	loaded, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "pizza", loaded.Name)
	require.Equal(t, int32(10), loaded.Availability)
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc := newService()

	_, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "", Price: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Name: "toast", Price: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newService()

	_, err := svc.UpdateProduct(context.Background(), &domain.Product{ID: 99, Name: "toast", Price: 1})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProducts_ActiveOnly(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	addProduct(t, svc, "pizza", 10)
	retired := addProduct(t, svc, "toast", 5)
	retired.Active = false
	_, err := svc.UpdateProduct(ctx, retired)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "pizza", active[0].Name)
}

func TestReserve_DecrementsAvailability(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	product := addProduct(t, svc, "pizza", 10)

	require.NoError(t, svc.Reserve(ctx, product.ID, 3))

	loaded, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(7), loaded.Availability)
}

func TestReserve_Insufficient(t *testing.T) {
	svc := newService()
	product := addProduct(t, svc, "pizza", 2)

	err := svc.Reserve(context.Background(), product.ID, 3)
	require.ErrorIs(t, err, ports.ErrInsufficient)

	loaded, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(2), loaded.Availability)
}

func TestReserve_InactiveProduct(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	product := addProduct(t, svc, "pizza", 10)
	product.Active = false
	_, err := svc.UpdateProduct(ctx, product)
	require.NoError(t, err)

	err = svc.Reserve(ctx, product.ID, 1)
	require.ErrorIs(t, err, ports.ErrInsufficient)
}

func TestReserve_UnknownProduct(t *testing.T) {
	svc := newService()

	err := svc.Reserve(context.Background(), 404, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReserve_InvalidQuantity(t *testing.T) {
	svc := newService()
	product := addProduct(t, svc, "pizza", 10)

	require.ErrorIs(t, svc.Reserve(context.Background(), product.ID, 0), ErrInvalidInput)
	require.ErrorIs(t, svc.Reserve(context.Background(), product.ID, -1), ErrInvalidInput)
}

func TestRelease_RestoresAvailability(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	product := addProduct(t, svc, "pizza", 10)

	require.NoError(t, svc.Reserve(ctx, product.ID, 4))
	require.NoError(t, svc.Release(ctx, product.ID, 4))

	loaded, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(10), loaded.Availability)

	require.ErrorIs(t, svc.Release(ctx, product.ID, 0), ErrInvalidInput)
}

func TestReserve_ConcurrentNoOversell(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	product := addProduct(t, svc, "pizza", 10)

	const buyers = 16
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Reserve(ctx, product.ID, 1)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, ports.ErrInsufficient)
			lost++
		}
	}
	require.Equal(t, 10, won)
	require.Equal(t, buyers-10, lost)

	loaded, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int32(0), loaded.Availability)
}
