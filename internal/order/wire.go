package order

import (
	"database/sql"

	"go.uber.org/zap"

	"travelbook/internal/config"
	"travelbook/internal/events"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/metrics"
	"travelbook/internal/order/controller"
	"travelbook/internal/order/repository"
	"travelbook/internal/order/service"
	"travelbook/internal/order/usecase"
)

type repo interface {
	service.OrderRepository
	usecase.OrderPlacer
}

func NewModule(db *sql.DB, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) (*controller.OrderController, *service.OrderService) {
	return newModule(repository.NewMySQLOrderRepository(db, cfg.Order.PlaceTxTimeout), cfg, publisher, m, logger)
}

func NewMemoryModule(store *memory.Store, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) (*controller.OrderController, *service.OrderService) {
	return newModule(repository.NewMemoryOrderRepository(store), cfg, publisher, m, logger)
}

// Services is the order module without its HTTP surface, for in-process
// front ends.
type Services struct {
	Orders     *service.OrderService
	PlaceOrder *usecase.PlaceOrderUseCase
}

func NewMemoryServices(store *memory.Store, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) Services {
	return newServices(repository.NewMemoryOrderRepository(store), cfg, publisher, m, logger)
}

func newServices(r repo, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) Services {
	return Services{
		Orders:     service.NewOrderService(r, publisher, m, logger),
		PlaceOrder: usecase.NewPlaceOrderUseCase(r, m, logger, cfg.Order.MaxRetryAttempts),
	}
}

func newModule(r repo, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics, logger *zap.Logger) (*controller.OrderController, *service.OrderService) {
	s := newServices(r, cfg, publisher, m, logger)
	return controller.NewOrderController(s.Orders, s.PlaceOrder, logger), s.Orders
}
