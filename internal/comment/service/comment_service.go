package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type CommentRepository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Comment, error)
	FindByID(ctx context.Context, id string) (domain.Comment, error)
	ExistsForOrder(ctx context.Context, orderID string) (bool, error)
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Update(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (domain.Order, error)
}

type CommentService struct {
	repo   CommentRepository
	orders OrderFinder
	logger *zap.Logger
	now    func() time.Time
}

func NewCommentService(repo CommentRepository, orders OrderFinder, logger *zap.Logger) *CommentService {
	return &CommentService{repo: repo, orders: orders, logger: logger, now: time.Now}
}

func (s *CommentService) List(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
	return s.repo.List(ctx, f)
}

func (s *CommentService) Get(ctx context.Context, id string) (domain.Comment, error) {
	return s.repo.FindByID(ctx, id)
}

// Create reviews a completed order owned by the caller. Each order can be
// reviewed once.
func (s *CommentService) Create(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error) {
	if sess == nil {
		return domain.Comment{}, apperrors.NewUnauthorizedError("login required")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return domain.Comment{}, apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{
			Field: "orderId", Message: "orderId is required",
		})
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return domain.Comment{}, err
	}
	if order.Account != sess.Account {
		return domain.Comment{}, apperrors.NewForbiddenError("only the account that placed the order may review it")
	}
	if order.Status != domain.OrderStatusCompleted {
		return domain.Comment{}, apperrors.NewConflictError(fmt.Sprintf("order %s is %s, only completed orders can be reviewed", order.ID, order.Status))
	}
	exists, err := s.repo.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return domain.Comment{}, err
	}
	if exists {
		return domain.Comment{}, apperrors.NewConflictError(fmt.Sprintf("order %s has already been reviewed", order.ID))
	}

	c := domain.Comment{
		PlanID:  order.PlanID,
		OrderID: order.ID,
		Account: sess.Account,
		Content: strings.TrimSpace(req.Content),
		Rating:  req.Rating,
		Date:    s.now().UTC().Truncate(24 * time.Hour),
	}
	if err := c.Validate(); err != nil {
		return domain.Comment{}, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.Comment{}, err
	}
	s.logger.Info("comment created", zap.String("commentId", created.ID), zap.String("orderId", order.ID))
	return created, nil
}

func (s *CommentService) Update(ctx context.Context, id string, c domain.Comment) (domain.Comment, error) {
	c.ID = id
	if err := c.Validate(); err != nil {
		return domain.Comment{}, err
	}
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return domain.Comment{}, err
	}
	s.logger.Info("comment updated", zap.String("commentId", id))
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("comment deleted", zap.String("commentId", id))
	return nil
}
