package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "travelbook/internal/errors"
)

func samplePlan() Plan {
	return Plan{
		ID:            "PLN001",
		Title:         "Beijing-Shanghai weekend",
		Departure:     "Beijing",
		Destination:   "Shanghai",
		Price:         599,
		Days:          2,
		DepartureDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		ReturnDate:    time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC),
		Status:        PlanStatusActive,
		OrderCount:    128,
	}
}

func TestPlan_Matches(t *testing.T) {
	plan := samplePlan()

	assert.True(t, plan.Matches(Filter{Departure: "Bei", Destination: "Shang"}))
	assert.False(t, plan.Matches(Filter{Departure: "Guangzhou"}))
	assert.False(t, plan.Matches(Filter{Status: PlanStatusInactive}))
	assert.True(t, plan.Matches(Filter{Search: "weekend"}))
}

func TestPlan_Revenue(t *testing.T) {
	assert.Equal(t, 599.0*128, samplePlan().Revenue())
}

func TestPlan_WithField_ReturnBeforeDeparture(t *testing.T) {
	_, err := samplePlan().WithField("returnDate", "2025-06-19")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "returnDate", ve.Details[0].Field)
}

func TestPlan_WithField_DepartureAfterReturn(t *testing.T) {
	plan := samplePlan()

	_, err := plan.WithField("departureDate", "2025-06-25")

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "departureDate", ve.Details[0].Field)

	moved, err := plan.WithField("departureDate", "2025-06-21")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), moved.DepartureDate)
}

func TestPlan_WithField_Days(t *testing.T) {
	updated, err := samplePlan().WithField("days", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Days)

	_, err = samplePlan().WithField("days", "0")
	assert.Error(t, err)
}

func TestToggledPlanStatus(t *testing.T) {
	assert.Equal(t, PlanStatusInactive, ToggledPlanStatus(PlanStatusActive))
	assert.Equal(t, PlanStatusActive, ToggledPlanStatus(PlanStatusInactive))
}
