package statistics

import (
	"context"

	"go.uber.org/zap"

	"travelbook/internal/domain"
	planservice "travelbook/internal/plan/service"
	"travelbook/internal/statistics/controller"
	"travelbook/internal/statistics/service"
)

type catalog struct {
	plans *planservice.PlanService
}

func (c catalog) List(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
	return c.plans.List(ctx, planservice.Query{Filter: f})
}

func NewModule(plans *planservice.PlanService, logger *zap.Logger) (*controller.StatisticsController, *service.StatisticsService) {
	svc := service.NewStatisticsService(catalog{plans: plans}, logger)
	return controller.NewStatisticsController(svc, logger), svc
}
