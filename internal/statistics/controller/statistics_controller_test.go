package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
)

type mockStatisticsService struct {
	PopularPlansFunc     func(ctx context.Context) ([]domain.PopularPlan, error)
	ProfitablePlansFunc  func(ctx context.Context) ([]domain.ProfitablePlan, error)
	PopularLocationsFunc func(ctx context.Context) ([]domain.PopularLocation, error)
}

func (m *mockStatisticsService) PopularPlans(ctx context.Context) ([]domain.PopularPlan, error) {
	return m.PopularPlansFunc(ctx)
}

func (m *mockStatisticsService) ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error) {
	return m.ProfitablePlansFunc(ctx)
}

func (m *mockStatisticsService) PopularLocations(ctx context.Context) ([]domain.PopularLocation, error) {
	return m.PopularLocationsFunc(ctx)
}

func TestStatisticsController_PopularPlans(t *testing.T) {
	c := NewStatisticsController(&mockStatisticsService{
		PopularPlansFunc: func(ctx context.Context) ([]domain.PopularPlan, error) {
			return []domain.PopularPlan{{ID: "PLN002", Title: "Lhasa", OrderCount: 9}}, nil
		},
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	c.PopularPlans(rec, httptest.NewRequest(http.MethodGet, "/statistics/popular-plans", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ListResponse[dto.PopularPlanDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 9, resp.Items[0].OrderCount)
	assert.NotEmpty(t, resp.TraceID)
}

func TestStatisticsController_EmptyLocations(t *testing.T) {
	c := NewStatisticsController(&mockStatisticsService{
		PopularLocationsFunc: func(ctx context.Context) ([]domain.PopularLocation, error) { return nil, nil },
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	c.PopularLocations(rec, httptest.NewRequest(http.MethodGet, "/statistics/famous-places", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestStatisticsController_Error(t *testing.T) {
	c := NewStatisticsController(&mockStatisticsService{
		ProfitablePlansFunc: func(ctx context.Context) ([]domain.ProfitablePlan, error) {
			return nil, errors.New("db down")
		},
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	c.ProfitablePlans(rec, httptest.NewRequest(http.MethodGet, "/statistics/profit-plans", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
