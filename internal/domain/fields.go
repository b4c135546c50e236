package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "travelbook/internal/errors"
)

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, apperrors.ValidationDetail{
		Field:   field,
		Message: message,
	})
}

func unknownField(kind Kind, field string) error {
	return fieldError(field, fmt.Sprintf("%s has no editable field %q", kind, field))
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q out of range", value)
	}
	return amount, nil
}
