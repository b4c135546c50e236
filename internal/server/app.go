package server

import (
	"database/sql"

	"go.uber.org/zap"

	"travelbook/internal/account"
	"travelbook/internal/comment"
	"travelbook/internal/config"
	"travelbook/internal/events"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/metrics"
	"travelbook/internal/order"
	"travelbook/internal/plan"
	"travelbook/internal/session"
	"travelbook/internal/statistics"
)

// Deps are the process-wide collaborators every module shares.
type Deps struct {
	Config    *config.Config
	Sessions  *session.Store
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func NewMySQLControllers(db *sql.DB, d Deps) Controllers {
	planCtrl, planSvc := plan.NewModule(db, d.Logger)
	orderCtrl, _ := order.NewModule(db, d.Config, d.Publisher, d.Metrics, d.Logger)
	commentCtrl, _ := comment.NewModule(db, d.Config.Order.PlaceTxTimeout, d.Logger)
	accountCtrl, _ := account.NewModule(db, d.Config, d.Sessions, d.Metrics, d.Logger)
	statsCtrl, _ := statistics.NewModule(planSvc, d.Logger)

	return Controllers{
		Accounts:   accountCtrl,
		Plans:      planCtrl,
		Orders:     orderCtrl,
		Comments:   commentCtrl,
		Statistics: statsCtrl,
	}
}

func NewMemoryControllers(store *memory.Store, d Deps) Controllers {
	planCtrl, planSvc := plan.NewMemoryModule(store, d.Logger)
	orderCtrl, _ := order.NewMemoryModule(store, d.Config, d.Publisher, d.Metrics, d.Logger)
	commentCtrl, _ := comment.NewMemoryModule(store, d.Logger)
	accountCtrl, _ := account.NewMemoryModule(store, d.Config, d.Sessions, d.Metrics, d.Logger)
	statsCtrl, _ := statistics.NewModule(planSvc, d.Logger)

	return Controllers{
		Accounts:   accountCtrl,
		Plans:      planCtrl,
		Orders:     orderCtrl,
		Comments:   commentCtrl,
		Statistics: statsCtrl,
	}
}
