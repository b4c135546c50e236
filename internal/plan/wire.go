package plan

import (
	"database/sql"

	"go.uber.org/zap"

	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/plan/controller"
	"travelbook/internal/plan/repository"
	"travelbook/internal/plan/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) (*controller.PlanController, *service.PlanService) {
	return newModule(repository.NewMySQLPlanRepository(db), logger)
}

func NewMemoryModule(store *memory.Store, logger *zap.Logger) (*controller.PlanController, *service.PlanService) {
	return newModule(repository.NewMemoryPlanRepository(store), logger)
}

func newModule(repo service.PlanRepository, logger *zap.Logger) (*controller.PlanController, *service.PlanService) {
	svc := service.NewPlanService(repo, logger)
	return controller.NewPlanController(svc, logger), svc
}
