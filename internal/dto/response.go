package dto

import (
	"time"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

type ListResponse[T any] struct {
	TraceID string `json:"traceId"`
	Items   []T    `json:"items"`
	Count   int    `json:"count"`
}

func NewListResponse[T any](traceID string, items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{TraceID: traceID, Items: items, Count: len(items)}
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(err.Error(), apperrors.ValidationDetail{
			Field:   field,
			Message: err.Error(),
		})
	}
	return t, nil
}
