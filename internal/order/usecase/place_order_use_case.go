package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type OrderPlacer interface {
	Place(ctx context.Context, draft domain.Order, date time.Time) (domain.Order, error)
}

type PlacementRecorder interface {
	OrderPlaced()
}

type PlaceOrderUseCase struct {
	placer           OrderPlacer
	recorder         PlacementRecorder
	logger           *zap.Logger
	maxRetryAttempts int
	now              func() time.Time
	sleep            func(time.Duration)
}

func NewPlaceOrderUseCase(
	placer OrderPlacer,
	recorder PlacementRecorder,
	logger *zap.Logger,
	maxRetryAttempts int,
) *PlaceOrderUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &PlaceOrderUseCase{
		placer:           placer,
		recorder:         recorder,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		now:              time.Now,
		sleep:            time.Sleep,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error) {
	if sess == nil {
		return domain.Order{}, apperrors.NewUnauthorizedError("login required")
	}
	if err := validatePlaceOrderRequest(req); err != nil {
		return domain.Order{}, err
	}

	uc.logger.Info("place order started",
		zap.String("planId", req.PlanID),
		zap.String("account", sess.Account),
		zap.Int("numOfPassengers", req.NumOfPassengers),
	)

	draft := domain.Order{
		PlanID:          req.PlanID,
		Account:         sess.Account,
		PassengerName:   strings.TrimSpace(req.PassengerName),
		PassengerPhone:  strings.TrimSpace(req.PassengerPhone),
		NumOfPassengers: req.NumOfPassengers,
	}
	today := uc.now().UTC().Truncate(24 * time.Hour)

	order, err := uc.placeWithRetry(ctx, draft, today)
	if err != nil {
		return domain.Order{}, err
	}

	uc.recorder.OrderPlaced()
	uc.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("planId", order.PlanID),
		zap.Float64("totalAmount", order.TotalAmount),
	)
	return order, nil
}

func validatePlaceOrderRequest(req dto.PlaceOrderRequest) error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.PlanID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "planId", Message: "planId is required"})
	}
	if strings.TrimSpace(req.PassengerName) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "passengerName", Message: "passengerName is required"})
	}
	if req.NumOfPassengers < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "numOfPassengers", Message: "numOfPassengers must be a positive integer"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (uc *PlaceOrderUseCase) placeWithRetry(ctx context.Context, draft domain.Order, date time.Time) (domain.Order, error) {
	// Backoff before attempt 2, 3, ...
	backoffs := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		order, err := uc.placer.Place(ctx, draft, date)
		if err == nil {
			return order, nil
		}
		if !isDeadlockError(err) {
			return domain.Order{}, err
		}
		if attempt == uc.maxRetryAttempts {
			break
		}

		base := backoffs[min(attempt-1, len(backoffs)-1)]
		// ±20% jitter
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		uc.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts),
			zap.String("planId", draft.PlanID),
		)
		uc.sleep(base + jitter)
	}

	return domain.Order{}, apperrors.NewConflictError("order could not be placed, please retry")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
