package statusgate

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "travelbook/internal/errors"
)

// PasscodeAuthorizer compares the secret against a bcrypt hash. The backend
// uses it behind POST /api/staff/verify; the console uses it directly in
// offline mode.
type PasscodeAuthorizer struct {
	hash []byte
}

func NewPasscodeAuthorizer(hash string) *PasscodeAuthorizer {
	return &PasscodeAuthorizer{hash: []byte(hash)}
}

func (a *PasscodeAuthorizer) VerifyStatusSecret(ctx context.Context, secret string) error {
	if len(a.hash) == 0 {
		return apperrors.NewAuthorizationError("status changes are disabled: no passcode configured")
	}
	err := bcrypt.CompareHashAndPassword(a.hash, []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.NewAuthorizationError("wrong secret")
	}
	if err != nil {
		return apperrors.NewInternalError("checking passcode", err)
	}
	return nil
}
