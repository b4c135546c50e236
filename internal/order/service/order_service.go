package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/events"
	"travelbook/internal/session"
)

type OrderRepository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	Update(ctx context.Context, o domain.Order) (domain.Order, error)
	CompareAndSetStatus(ctx context.Context, id, from, to string) (domain.Order, error)
}

type EventPublisher interface {
	PublishOrderStatus(ctx context.Context, event events.OrderStatusChanged) error
}

type StatusRecorder interface {
	OrderStatusChanged(status string)
}

type OrderService struct {
	repo      OrderRepository
	publisher EventPublisher
	recorder  StatusRecorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, publisher EventPublisher, recorder StatusRecorder, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every order for staff and only the caller's own orders
// otherwise.
func (s *OrderService) List(ctx context.Context, sess *session.Session, f domain.Filter) ([]domain.Order, error) {
	if !sess.IsStaff() {
		f.Account = sess.Account
	}
	return s.repo.List(ctx, f)
}

func (s *OrderService) Get(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !sess.Owns(o.Account) {
		// Hide other accounts' orders entirely.
		return domain.Order{}, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return o, nil
}

// Update replaces every editable field of an order. Staff only; the owning
// account never changes.
func (s *OrderService) Update(ctx context.Context, sess *session.Session, id string, o domain.Order) (domain.Order, error) {
	if !sess.IsStaff() {
		return domain.Order{}, apperrors.NewForbiddenError("only staff may edit orders")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	o.ID = id
	o.Account = existing.Account
	if o.OrderDate.IsZero() {
		o.OrderDate = existing.OrderDate
	}
	if err := o.Validate(); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order updated", zap.String("orderId", id), zap.String("actor", sess.Account))
	if existing.Status != updated.Status {
		s.statusChanged(ctx, sess, existing, updated)
	}
	return updated, nil
}

// SetStatus is the status-gate override: staff may set any status. Owners
// may only cancel an order that has not been completed.
func (s *OrderService) SetStatus(ctx context.Context, sess *session.Session, id, status string) (domain.Order, error) {
	if !domain.IsOrderStatus(status) {
		return domain.Order{}, apperrors.NewValidationError("unknown order status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status %q is not one of %v", status, domain.OrderStatuses()),
		})
	}
	o, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !sess.IsStaff() {
		if status != domain.OrderStatusCancelled {
			return domain.Order{}, apperrors.NewForbiddenError("only staff may change order status")
		}
		if !domain.CanCancel(o.Status) {
			return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order %s is %s and cannot be cancelled", id, o.Status))
		}
	}
	return s.transition(ctx, sess, o, status)
}

// Pay settles an unpaid order.
func (s *OrderService) Pay(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	o, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.OrderStatusUnpaid {
		return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order %s is %s, only unpaid orders can be paid", id, o.Status))
	}
	return s.transition(ctx, sess, o, domain.OrderStatusUnused)
}

// Process advances an order one step along unpaid, unused, completed.
func (s *OrderService) Process(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	if !sess.IsStaff() {
		return domain.Order{}, apperrors.NewForbiddenError("only staff may process orders")
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	next, ok := domain.NextOrderStatus(o.Status)
	if !ok {
		return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order %s is %s and cannot be processed", id, o.Status))
	}
	return s.transition(ctx, sess, o, next)
}

func (s *OrderService) Cancel(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	o, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanCancel(o.Status) {
		return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order %s is %s and cannot be cancelled", id, o.Status))
	}
	return s.transition(ctx, sess, o, domain.OrderStatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, sess *session.Session, o domain.Order, to string) (domain.Order, error) {
	if o.Status == to {
		return o, nil
	}
	updated, err := s.repo.CompareAndSetStatus(ctx, o.ID, o.Status, to)
	if err != nil {
		return domain.Order{}, err
	}
	s.statusChanged(ctx, sess, o, updated)
	return updated, nil
}

// statusChanged emits the audit event. Publishing is best effort: the
// status change is already committed.
func (s *OrderService) statusChanged(ctx context.Context, sess *session.Session, before, after domain.Order) {
	s.logger.Info("order status changed",
		zap.String("orderId", after.ID),
		zap.String("from", before.Status),
		zap.String("to", after.Status),
		zap.String("actor", sess.Account),
	)
	s.recorder.OrderStatusChanged(after.Status)

	err := s.publisher.PublishOrderStatus(ctx, events.OrderStatusChanged{
		OrderID:   after.ID,
		Account:   after.Account,
		OldStatus: before.Status,
		NewStatus: after.Status,
		Actor:     sess.Account,
		At:        s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish order event", zap.String("orderId", after.ID), zap.Error(err))
	}
}
