package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/martagenovese/poldo/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/martagenovese/poldo/internal/domains/catalog/application"
	catalogdomain "github.com/martagenovese/poldo/internal/domains/catalog/domain"
	orderscatalog "github.com/martagenovese/poldo/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/martagenovese/poldo/internal/domains/orders/adapters/memory"
	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
	shiftsmemory "github.com/martagenovese/poldo/internal/domains/shifts/adapters/memory"
	shiftsapp "github.com/martagenovese/poldo/internal/domains/shifts/application"
	shiftdomain "github.com/martagenovese/poldo/internal/domains/shifts/domain"
)

var (
	shiftDate      = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	insideOrdering = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	service *Service
	catalog *catalogapp.Service
	repo    *ordersmemory.Repository
}

// newFixture wires the order service against in-memory collaborators with a
// shift on 2024-05-10 whose ordering window is 08:00-10:00 and the clock
// pinned inside it.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	shiftService := shiftsapp.NewService(shiftsmemory.NewRepository())
	shift, err := shiftdomain.NewShift(shiftDate, 1,
		shiftdomain.Window{From: shiftdomain.TimeOfDay{Hour: 8}, To: shiftdomain.TimeOfDay{Hour: 10}},
		shiftdomain.Window{From: shiftdomain.TimeOfDay{Hour: 11}, To: shiftdomain.TimeOfDay{Hour: 13}})
	require.NoError(t, err)
	_, err = shiftService.CreateShift(context.Background(), shift)
	require.NoError(t, err)

	catalogService := catalogapp.NewService(catalogmemory.NewRepository())
	repo := ordersmemory.NewRepository()
	service := NewService(repo, shiftService, orderscatalog.New(catalogService),
		WithClock(func() time.Time { return insideOrdering }))
	return &fixture{service: service, catalog: catalogService, repo: repo}
}

func (f *fixture) addProduct(t *testing.T, name string, availability int32) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct(name, 1.50, "", availability, 1)
	require.NoError(t, err)
	created, err := f.catalog.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	return created
}

func (f *fixture) draftWithLine(t *testing.T, kind domain.Kind, party string, productID int64, qty int32) *domain.Order {
	t.Helper()
	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		Kind: kind, Party: party, ShiftDate: shiftDate, ShiftN: 1,
	})
	require.NoError(t, err)
	_, err = f.service.AddLine(context.Background(), order.ID, productID, qty)
	require.NoError(t, err)
	loaded, err := f.service.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	return loaded
}

func TestCreateOrder_OutsideOrderingWindow(t *testing.T) {
	f := newFixture(t)
	late := time.Date(2024, 5, 10, 10, 30, 0, 0, time.UTC)
	f.service.now = func() time.Time { return late }

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		Kind: domain.KindStudent, Party: "mario.rossi", ShiftDate: shiftDate, ShiftN: 1,
	})
	require.ErrorIs(t, err, ErrShiftClosed)
}

func TestCreateOrder_DuplicatePerShiftAndParty(t *testing.T) {
	f := newFixture(t)
	input := ports.CreateOrderInput{Kind: domain.KindClass, Party: "3B", ShiftDate: shiftDate, ShiftN: 1}

	_, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	_, err = f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestCreateOrder_AllowedAgainAfterCancellation(t *testing.T) {
	f := newFixture(t)
	input := ports.CreateOrderInput{Kind: domain.KindStaff, Party: "bidello", ShiftDate: shiftDate, ShiftN: 1}

	first, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.NoError(t, f.service.CancelOrder(context.Background(), first.ID))

	second, err := f.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestConfirmOrder_EmptyOrderRejected(t *testing.T) {
	f := newFixture(t)
	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		Kind: domain.KindStudent, Party: "mario.rossi", ShiftDate: shiftDate, ShiftN: 1,
	})
	require.NoError(t, err)

	_, err = f.service.ConfirmOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestConfirmOrder_ReservesAvailability(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 3)

	confirmed, err := f.service.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, confirmed.Status)

	remaining, err := f.catalog.GetProduct(context.Background(), pizza.ID)
	require.NoError(t, err)
	require.Equal(t, int32(7), remaining.Availability)
}

func TestConfirmOrder_ReleasesPartialReservationsOnFailure(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	toast := f.addProduct(t, "toast", 1)

	order := f.draftWithLine(t, domain.KindClass, "3B", pizza.ID, 4)
	_, err := f.service.AddLine(context.Background(), order.ID, toast.ID, 1)
	require.NoError(t, err)

	// drain the toast before confirmation so the second reservation fails
	require.NoError(t, f.catalog.Reserve(context.Background(), toast.ID, 1))

	_, err = f.service.ConfirmOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrProductUnavailable)

	// the pizza reservation must have been rolled back
	remaining, err := f.catalog.GetProduct(context.Background(), pizza.ID)
	require.NoError(t, err)
	require.Equal(t, int32(10), remaining.Availability)
}

func TestConfirmOrder_Twice(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 1)

	_, err := f.service.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = f.service.ConfirmOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAddLine_ProductUnavailable(t *testing.T) {
	f := newFixture(t)
	toast := f.addProduct(t, "toast", 1)
	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		Kind: domain.KindStudent, Party: "mario.rossi", ShiftDate: shiftDate, ShiftN: 1,
	})
	require.NoError(t, err)

	_, err = f.service.AddLine(context.Background(), order.ID, toast.ID, 5)
	require.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.service.AddLine(context.Background(), order.ID, 999, 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddLine_LockedAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 1)
	_, err := f.service.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.service.AddLine(context.Background(), order.ID, pizza.ID, 1)
	require.ErrorIs(t, err, domain.ErrOrderLocked)
	err = f.service.RemoveLine(context.Background(), order.ID, order.Lines[0].ID)
	require.ErrorIs(t, err, domain.ErrOrderLocked)
}

func TestMarkPrepared_CascadesToLines(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindClass, "3B", pizza.ID, 2)
	_, err := f.service.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	prepared, err := f.service.MarkPrepared(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPrepared, prepared.Status)
	for _, line := range prepared.Lines {
		require.True(t, line.Prepared)
	}
}

func TestMarkPrepared_DraftRejected(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 1)

	_, err := f.service.MarkPrepared(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelOrder_ConfirmedRejected(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	order := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 1)
	_, err := f.service.ConfirmOrder(context.Background(), order.ID)
	require.NoError(t, err)

	err = f.service.CancelOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAttachStudentOrders(t *testing.T) {
	f := newFixture(t)
	pizza := f.addProduct(t, "pizza rossa", 10)
	class := f.draftWithLine(t, domain.KindClass, "3B", pizza.ID, 1)
	student := f.draftWithLine(t, domain.KindStudent, "mario.rossi", pizza.ID, 1)
	staff := f.draftWithLine(t, domain.KindStaff, "bidello", pizza.ID, 1)

	_, err := f.service.AttachStudentOrders(context.Background(), ports.AttachInput{
		ClassOrderID: class.ID, StudentOrderIDs: []int64{staff.ID},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.AttachStudentOrders(context.Background(), ports.AttachInput{
		ClassOrderID: student.ID, StudentOrderIDs: []int64{student.ID},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.AttachStudentOrders(context.Background(), ports.AttachInput{
		ClassOrderID: class.ID, StudentOrderIDs: []int64{student.ID},
	})
	require.NoError(t, err)

	linked, err := f.service.GetOrder(context.Background(), student.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.ClassOrderID)
	require.Equal(t, class.ID, *linked.ClassOrderID)
}

func TestListOrders_NormalizesFilterDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		Kind: domain.KindStudent, Party: "mario.rossi", ShiftDate: shiftDate, ShiftN: 1,
	})
	require.NoError(t, err)

	afternoon := time.Date(2024, 5, 10, 15, 45, 0, 0, time.UTC)
	orders, err := f.service.ListOrders(context.Background(), ports.Filter{ShiftDate: &afternoon})
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestCreateOrder_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	input := ports.CreateOrderInput{Kind: domain.KindClass, Party: "3B", ShiftDate: shiftDate, ShiftN: 1}

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateOrder(context.Background(), input)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, ErrDuplicateOrder)
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, attempts-1, lost)
}
