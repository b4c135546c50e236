package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type AccountRepository interface {
	FindByName(ctx context.Context, name string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) error
}

// SecretVerifier checks the staff status-change secret.
type SecretVerifier interface {
	VerifyStatusSecret(ctx context.Context, secret string) error
}

type VerificationRecorder interface {
	Verification(ok bool)
}

type AccountService struct {
	repo     AccountRepository
	sessions *session.Store
	verifier SecretVerifier
	recorder VerificationRecorder
	cost     int
	logger   *zap.Logger
	now      func() time.Time
}

func NewAccountService(repo AccountRepository, sessions *session.Store, verifier SecretVerifier, recorder VerificationRecorder, cost int, logger *zap.Logger) *AccountService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:     repo,
		sessions: sessions,
		verifier: verifier,
		recorder: recorder,
		cost:     cost,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a user account. Staff accounts only come from fixtures.
func (s *AccountService) Register(ctx context.Context, req dto.CredentialsRequest) (domain.Account, error) {
	name := strings.TrimSpace(req.Account)
	var details []apperrors.ValidationDetail
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "account", Message: "account is required"})
	}
	if len(req.Password) < 6 {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(details) > 0 {
		return domain.Account{}, apperrors.NewValidationError("invalid registration", details...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.Account{}, apperrors.NewInternalError("hashing password", err)
	}
	acc := domain.Account{
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return domain.Account{}, err
	}
	s.logger.Info("account registered", zap.String("account", name))
	return acc, nil
}

// Login checks the password and issues a session. Unknown accounts and wrong
// passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, req dto.CredentialsRequest) (*session.Session, error) {
	acc, err := s.repo.FindByName(ctx, strings.TrimSpace(req.Account))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewAuthorizationError("wrong account or password")
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		s.logger.Info("login rejected", zap.String("account", acc.Name))
		return nil, apperrors.NewAuthorizationError("wrong account or password")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("checking password for %s", acc.Name), err)
	}

	sess := s.sessions.Issue(acc.Name, acc.Role)
	s.logger.Info("login", zap.String("account", acc.Name), zap.String("role", string(acc.Role)))
	return sess, nil
}

func (s *AccountService) Logout(sess *session.Session) error {
	if sess == nil {
		return apperrors.NewUnauthorizedError("login required")
	}
	s.sessions.Revoke(sess.Token)
	s.logger.Info("logout", zap.String("account", sess.Account))
	return nil
}

// VerifyStaffSecret backs the status gate. Only staff sessions may ask.
func (s *AccountService) VerifyStaffSecret(ctx context.Context, sess *session.Session, secret string) error {
	if !sess.IsStaff() {
		return apperrors.NewForbiddenError("staff role required")
	}
	if secret == "" {
		return apperrors.NewValidationError("secret is required", apperrors.ValidationDetail{
			Field: "secret", Message: "secret is required",
		})
	}

	err := s.verifier.VerifyStatusSecret(ctx, secret)
	s.recorder.Verification(err == nil)
	if err != nil {
		s.logger.Warn("status secret rejected", zap.String("account", sess.Account), zap.Error(err))
		return err
	}
	return nil
}
