// Package statusgate guards the staff order status edit behind a secret
// prompt. The secret check is delegated to an Authorizer; the gate itself is
// only the interaction flow and never the authorization boundary.
package statusgate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/notice"
)

type State string

const (
	StateClosed    State = "closed"
	StatePrompting State = "prompting"
	StateOpen      State = "open"
	StateLocked    State = "locked"
)

// Authorizer checks the secret on behalf of the current session. A rejected
// secret is reported as *errors.AuthorizationError.
type Authorizer interface {
	VerifyStatusSecret(ctx context.Context, secret string) error
}

// StatusEditor is the order detail view the gate commits through.
type StatusEditor interface {
	Draft() (domain.Order, bool)
	UpdateField(name, value string) error
	Save(ctx context.Context) (domain.Order, error)
}

type Options struct {
	ErrorNoticeTTL time.Duration
	// MaxAttempts consecutive rejections lock the gate for Lockout. Zero
	// disables the lockout.
	MaxAttempts int
	Lockout     time.Duration
}

func DefaultOptions() Options {
	return Options{
		ErrorNoticeTTL: 3 * time.Second,
		MaxAttempts:    5,
		Lockout:        time.Minute,
	}
}

type Gate struct {
	authorizer Authorizer
	editor     StatusEditor
	board      *notice.Board
	opts       Options
	now        func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	lockedUntil time.Time
}

func New(authorizer Authorizer, editor StatusEditor, board *notice.Board, opts Options) *Gate {
	return &Gate{
		authorizer: authorizer,
		editor:     editor,
		board:      board,
		opts:       opts,
		now:        time.Now,
		state:      StateClosed,
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlockIfDueLocked()
	return g.state
}

// RequestChange opens the secret prompt for the order being edited.
func (g *Gate) RequestChange() error {
	if _, ok := g.editor.Draft(); !ok {
		return apperrors.NewValidationError("open an order before changing its status")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.unlockIfDueLocked()
	if g.state == StateLocked {
		return g.lockedErrorLocked()
	}
	g.state = StatePrompting
	return nil
}

// Verify checks secret. On success the gate opens; on rejection it stays
// closed to commits and an error notice is shown.
func (g *Gate) Verify(ctx context.Context, secret string) error {
	g.mu.Lock()
	g.unlockIfDueLocked()
	switch g.state {
	case StateLocked:
		err := g.lockedErrorLocked()
		g.mu.Unlock()
		return err
	case StatePrompting:
	default:
		g.mu.Unlock()
		return apperrors.NewValidationError("request a status change first")
	}
	g.mu.Unlock()

	if strings.TrimSpace(secret) == "" {
		return apperrors.NewValidationError("please enter the secret", apperrors.ValidationDetail{
			Field:   "secret",
			Message: "secret is required",
		})
	}

	err := g.authorizer.VerifyStatusSecret(ctx, secret)

	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		g.failures = 0
		g.state = StateOpen
		return nil
	}

	if _, ok := apperrors.IsAuthorizationError(err); !ok {
		return err
	}

	g.failures++
	if g.opts.MaxAttempts > 0 && g.failures >= g.opts.MaxAttempts {
		g.failures = 0
		g.state = StateLocked
		g.lockedUntil = g.now().Add(g.opts.Lockout)
		g.board.Error("too many wrong secrets, status changes are locked", g.opts.ErrorNoticeTTL)
		return err
	}
	g.board.Error("wrong secret", g.opts.ErrorNoticeTTL)
	return err
}

// Commit applies status to the open order and saves it. Only reachable after
// a successful Verify.
func (g *Gate) Commit(ctx context.Context, status string) (domain.Order, error) {
	g.mu.Lock()
	g.unlockIfDueLocked()
	if g.state != StateOpen {
		g.mu.Unlock()
		return domain.Order{}, apperrors.NewForbiddenError("status change has not been authorized")
	}
	g.mu.Unlock()

	if !domain.IsOrderStatus(status) {
		return domain.Order{}, apperrors.NewValidationError(
			fmt.Sprintf("unknown order status %q", status),
			apperrors.ValidationDetail{Field: "status", Message: "status must be one of " + strings.Join(domain.OrderStatuses(), ", ")},
		)
	}

	if err := g.editor.UpdateField("status", status); err != nil {
		return domain.Order{}, err
	}
	saved, err := g.editor.Save(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	g.mu.Lock()
	g.state = StateClosed
	g.mu.Unlock()
	return saved, nil
}

// Cancel closes the prompt or the status form. A lockout stays in force.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateLocked {
		g.state = StateClosed
	}
}

func (g *Gate) unlockIfDueLocked() {
	if g.state == StateLocked && !g.now().Before(g.lockedUntil) {
		g.state = StateClosed
	}
}

func (g *Gate) lockedErrorLocked() error {
	wait := g.lockedUntil.Sub(g.now()).Round(time.Second)
	return apperrors.NewForbiddenError(fmt.Sprintf("status changes are locked for another %s", wait))
}
