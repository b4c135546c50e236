package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
)

type StatisticsService interface {
	PopularPlans(ctx context.Context) ([]domain.PopularPlan, error)
	ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error)
	PopularLocations(ctx context.Context) ([]domain.PopularLocation, error)
}

type StatisticsController struct {
	service StatisticsService
	logger  *zap.Logger
}

func NewStatisticsController(service StatisticsService, logger *zap.Logger) *StatisticsController {
	return &StatisticsController{service: service, logger: logger}
}

func (c *StatisticsController) PopularPlans(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	plans, err := c.service.PopularPlans(r.Context())
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromPopularPlans(plans)))
}

func (c *StatisticsController) ProfitablePlans(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	plans, err := c.service.ProfitablePlans(r.Context())
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromProfitablePlans(plans)))
}

func (c *StatisticsController) PopularLocations(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	locations, err := c.service.PopularLocations(r.Context())
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromPopularLocations(locations)))
}
