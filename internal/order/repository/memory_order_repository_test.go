package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/infrastructure/memory"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Plans.Insert(domain.Plan{
		ID: "PLN001", Title: "Sanya", Departure: "Beijing", Destination: "Sanya",
		Price: 1000, Days: 3, Status: domain.PlanStatusActive, OrderCount: 2,
	}))
	require.NoError(t, store.Plans.Insert(domain.Plan{
		ID: "PLN002", Title: "Lhasa", Departure: "Chengdu", Destination: "Lhasa",
		Price: 5000, Days: 7, Status: domain.PlanStatusInactive,
	}))
	require.NoError(t, store.Orders.Insert(domain.Order{
		ID: "ORD001", PlanID: "PLN001", Account: "zhangsan", PassengerName: "Zhang San",
		NumOfPassengers: 1, TotalAmount: 1000, Status: domain.OrderStatusUnpaid, OrderDate: day,
	}))
	return store
}

func draft() domain.Order {
	return domain.Order{PlanID: "PLN001", Account: "lisi", PassengerName: "Li Si", NumOfPassengers: 2}
}

func TestMemoryOrderRepository_Place(t *testing.T) {
	store := seededStore(t)
	repo := NewMemoryOrderRepository(store)

	order, err := repo.Place(context.Background(), draft(), day)
	require.NoError(t, err)
	assert.Equal(t, "ORD002", order.ID)
	assert.Equal(t, 2000.0, order.TotalAmount)
	assert.Equal(t, domain.OrderStatusUnpaid, order.Status)

	plan, err := store.Plans.Get("PLN001")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.OrderCount)
}

func TestMemoryOrderRepository_PlaceConcurrentCountsEveryOrder(t *testing.T) {
	store := seededStore(t)
	repo := NewMemoryOrderRepository(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Place(context.Background(), draft(), day)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	plan, err := store.Plans.Get("PLN001")
	require.NoError(t, err)
	assert.Equal(t, 22, plan.OrderCount)
	assert.Equal(t, 21, store.Orders.Len())
}

func TestMemoryOrderRepository_PlaceInactivePlan(t *testing.T) {
	repo := NewMemoryOrderRepository(seededStore(t))

	d := draft()
	d.PlanID = "PLN002"
	_, err := repo.Place(context.Background(), d, day)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_PlaceUnknownPlan(t *testing.T) {
	repo := NewMemoryOrderRepository(seededStore(t))

	d := draft()
	d.PlanID = "PLN404"
	_, err := repo.Place(context.Background(), d, day)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_CompareAndSetStatus(t *testing.T) {
	repo := NewMemoryOrderRepository(seededStore(t))
	ctx := context.Background()

	o, err := repo.CompareAndSetStatus(ctx, "ORD001", domain.OrderStatusUnpaid, domain.OrderStatusUnused)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnused, o.Status)

	_, err = repo.CompareAndSetStatus(ctx, "ORD001", domain.OrderStatusUnpaid, domain.OrderStatusCancelled)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_ListByAccount(t *testing.T) {
	repo := NewMemoryOrderRepository(seededStore(t))

	orders, err := repo.List(context.Background(), domain.Filter{Account: "zhangsan"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = repo.List(context.Background(), domain.Filter{Account: "lisi"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}
