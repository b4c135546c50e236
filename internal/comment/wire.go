package comment

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/comment/controller"
	"travelbook/internal/comment/repository"
	"travelbook/internal/comment/service"
	"travelbook/internal/infrastructure/memory"
	orderrepo "travelbook/internal/order/repository"
)

func NewModule(db *sql.DB, txTimeout time.Duration, logger *zap.Logger) (*controller.CommentController, *service.CommentService) {
	return newModule(repository.NewMySQLCommentRepository(db), orderrepo.NewMySQLOrderRepository(db, txTimeout), logger)
}

func NewMemoryModule(store *memory.Store, logger *zap.Logger) (*controller.CommentController, *service.CommentService) {
	return newModule(repository.NewMemoryCommentRepository(store), orderrepo.NewMemoryOrderRepository(store), logger)
}

func newModule(repo service.CommentRepository, orders service.OrderFinder, logger *zap.Logger) (*controller.CommentController, *service.CommentService) {
	svc := service.NewCommentService(repo, orders, logger)
	return controller.NewCommentController(svc, logger), svc
}
