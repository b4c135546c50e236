// Package session carries the authenticated account explicitly instead of
// through process-wide state. The server keeps issued sessions in a Store;
// clients hold the *Session returned by login and pass it to every call.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

type Session struct {
	Account  string
	Role     domain.Role
	Token    string
	IssuedAt time.Time
}

func (s *Session) IsStaff() bool {
	return s != nil && s.Role == domain.RoleStaff
}

// Owns reports whether the session may act on a record owned by account.
// Staff sessions own everything.
func (s *Session) Owns(account string) bool {
	if s == nil {
		return false
	}
	return s.IsStaff() || s.Account == account
}

type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewStore returns a store whose sessions expire after ttl. A ttl <= 0
// disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// Issue starts a session for account and returns it with a fresh token.
func (s *Store) Issue(account string, role domain.Role) *Session {
	sess := Session{
		Account:  account,
		Role:     role,
		Token:    uuid.NewString(),
		IssuedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return &sess
}

func (s *Store) Lookup(token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("missing session token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, apperrors.NewUnauthorizedError("unknown or revoked session")
	}
	if s.ttl > 0 && s.now().Sub(sess.IssuedAt) > s.ttl {
		delete(s.sessions, token)
		return nil, apperrors.NewUnauthorizedError("session expired")
	}
	return &sess, nil
}

// Revoke ends a session. Revoking an unknown token is a no-op.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

type contextKey struct{}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session attached by the authentication
// middleware, or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}
