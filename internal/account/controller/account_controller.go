package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	"travelbook/internal/session"
)

type AccountService interface {
	Register(ctx context.Context, req dto.CredentialsRequest) (domain.Account, error)
	Login(ctx context.Context, req dto.CredentialsRequest) (*session.Session, error)
	Logout(sess *session.Session) error
	VerifyStaffSecret(ctx context.Context, sess *session.Session, secret string) error
}

type AccountController struct {
	service AccountService
	logger  *zap.Logger
}

func NewAccountController(service AccountService, logger *zap.Logger) *AccountController {
	return &AccountController{service: service, logger: logger}
}

func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.CredentialsRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	acc, err := c.service.Register(r.Context(), req)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusCreated, dto.FromAccount(acc))
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.CredentialsRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	sess, err := c.service.Login(r.Context(), req)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.LoginResponse{
		Account: sess.Account,
		Role:    string(sess.Role),
		Token:   sess.Token,
	})
}

func (c *AccountController) Logout(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	if err := c.service.Logout(session.FromContext(r.Context())); err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Verify answers the status gate's secret check with 204 or an error envelope.
func (c *AccountController) Verify(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.VerifyRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	if err := c.service.VerifyStaffSecret(r.Context(), session.FromContext(r.Context()), req.Secret); err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
