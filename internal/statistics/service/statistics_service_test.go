package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travelbook/internal/domain"
)

type mockPlanLister struct {
	ListFunc func(ctx context.Context, f domain.Filter) ([]domain.Plan, error)
}

func (m *mockPlanLister) List(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
	return m.ListFunc(ctx, f)
}

func catalog(plans ...domain.Plan) *mockPlanLister {
	return &mockPlanLister{
		ListFunc: func(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
			return append([]domain.Plan(nil), plans...), nil
		},
	}
}

func plan(id, destination string, price float64, orders int) domain.Plan {
	return domain.Plan{ID: id, Title: "Trip " + id, Destination: destination, Price: price, OrderCount: orders}
}

func TestStatisticsService_PopularPlans(t *testing.T) {
	svc := NewStatisticsService(catalog(
		plan("PLN001", "Sanya", 2000, 3),
		plan("PLN002", "Lhasa", 5000, 9),
		plan("PLN003", "Xi'an", 1500, 3),
	), zap.NewNop())

	got, err := svc.PopularPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "PLN002", got[0].ID)
	assert.Equal(t, "PLN001", got[1].ID, "ties keep catalog order")
	assert.Equal(t, "PLN003", got[2].ID)
}

func TestStatisticsService_TopTenOnly(t *testing.T) {
	var plans []domain.Plan
	for i := 1; i <= 12; i++ {
		plans = append(plans, plan(fmt.Sprintf("PLN%03d", i), fmt.Sprintf("City%d", i), 100, i))
	}
	svc := NewStatisticsService(catalog(plans...), zap.NewNop())
	ctx := context.Background()

	popular, err := svc.PopularPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, popular, TopN)
	assert.Equal(t, 12, popular[0].OrderCount)

	profitable, err := svc.ProfitablePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, profitable, TopN)

	locations, err := svc.PopularLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, TopN)
}

func TestStatisticsService_ProfitablePlans(t *testing.T) {
	svc := NewStatisticsService(catalog(
		plan("PLN001", "Sanya", 2000, 3),
		plan("PLN002", "Lhasa", 5000, 1),
		plan("PLN003", "Xi'an", 1500, 0),
	), zap.NewNop())

	got, err := svc.ProfitablePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "PLN001", got[0].ID)
	assert.Equal(t, 6000.0, got[0].Revenue)
	assert.Equal(t, 5000.0, got[1].Revenue)
}

func TestStatisticsService_PopularLocationsSumsDestinations(t *testing.T) {
	svc := NewStatisticsService(catalog(
		plan("PLN001", "Sanya", 2000, 3),
		plan("PLN002", "Lhasa", 5000, 4),
		plan("PLN003", "Sanya", 1500, 2),
	), zap.NewNop())

	got, err := svc.PopularLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.PopularLocation{{City: "Sanya", Count: 5}, {City: "Lhasa", Count: 4}}, got)
}

func TestStatisticsService_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewStatisticsService(&mockPlanLister{
		ListFunc: func(ctx context.Context, f domain.Filter) ([]domain.Plan, error) { return nil, boom },
	}, zap.NewNop())

	_, err := svc.PopularPlans(context.Background())
	assert.ErrorIs(t, err, boom)
}
