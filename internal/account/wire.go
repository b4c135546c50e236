package account

import (
	"database/sql"

	"go.uber.org/zap"

	"travelbook/internal/account/controller"
	"travelbook/internal/account/repository"
	"travelbook/internal/account/service"
	"travelbook/internal/config"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/metrics"
	"travelbook/internal/session"
	"travelbook/internal/statusgate"
)

func NewModule(db *sql.DB, cfg *config.Config, sessions *session.Store, m *metrics.Metrics, logger *zap.Logger) (*controller.AccountController, *service.AccountService) {
	return newModule(repository.NewMySQLAccountRepository(db), cfg, sessions, m, logger)
}

func NewMemoryModule(store *memory.Store, cfg *config.Config, sessions *session.Store, m *metrics.Metrics, logger *zap.Logger) (*controller.AccountController, *service.AccountService) {
	return newModule(repository.NewMemoryAccountRepository(store), cfg, sessions, m, logger)
}

func newModule(repo service.AccountRepository, cfg *config.Config, sessions *session.Store, m *metrics.Metrics, logger *zap.Logger) (*controller.AccountController, *service.AccountService) {
	verifier := statusgate.NewPasscodeAuthorizer(cfg.Auth.StaffPasscodeHash)
	svc := service.NewAccountService(repo, sessions, verifier, m, cfg.Auth.BcryptCost, logger)
	return controller.NewAccountController(svc, logger), svc
}
