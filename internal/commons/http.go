package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
)

// Error codes carried in dto.ErrorResponse.Code. Clients map them back to
// the typed errors in internal/errors.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// Trace starts a request trace: a fresh id and a logger carrying it.
func Trace(logger *zap.Logger, r *http.Request) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, logger.With(
		zap.String("traceId", traceID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON reads the request body into dst, answering 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		WriteError(w, logger, traceID, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return false
	}
	return true
}

// WriteError maps a typed error to its status code. Unknown errors are
// logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Status, resp.Code, resp.Details = http.StatusBadRequest, CodeValidation, ve.Details
	} else if _, ok := apperrors.IsUnauthorizedError(err); ok {
		resp.Status, resp.Code = http.StatusUnauthorized, CodeUnauthorized
	} else if _, ok := apperrors.IsAuthorizationError(err); ok {
		resp.Status, resp.Code = http.StatusUnauthorized, CodeInvalidCredentials
	} else if _, ok := apperrors.IsForbiddenError(err); ok {
		resp.Status, resp.Code = http.StatusForbidden, CodeForbidden
	} else if _, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code = http.StatusNotFound, CodeNotFound
	} else if _, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, CodeConflict
	} else {
		logger.Error("unexpected error", zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusInternalServerError, CodeInternal, "an unexpected error occurred"
	}

	if resp.Status < http.StatusInternalServerError {
		logger.Info("request rejected", zap.Int("status", resp.Status), zap.String("code", resp.Code), zap.String("reason", resp.Message))
	}
	WriteJSON(w, logger, resp.Status, resp)
}

// ErrorFromResponse rebuilds the typed error described by resp.
func ErrorFromResponse(resp dto.ErrorResponse) error {
	switch resp.Code {
	case CodeValidation:
		return apperrors.NewValidationError(resp.Message, resp.Details...)
	case CodeUnauthorized:
		return apperrors.NewUnauthorizedError(resp.Message)
	case CodeInvalidCredentials:
		return apperrors.NewAuthorizationError(resp.Message)
	case CodeForbidden:
		return apperrors.NewForbiddenError(resp.Message)
	case CodeNotFound:
		return apperrors.NewNotFoundError(resp.Message)
	case CodeConflict:
		return apperrors.NewConflictError(resp.Message)
	}
	return apperrors.NewInternalError(resp.Message, nil)
}
