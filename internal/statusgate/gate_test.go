package statusgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/notice"
)

type mockAuthorizer struct {
	VerifyStatusSecretFunc func(ctx context.Context, secret string) error
}

func (m *mockAuthorizer) VerifyStatusSecret(ctx context.Context, secret string) error {
	return m.VerifyStatusSecretFunc(ctx, secret)
}

func secretIs(want string) *mockAuthorizer {
	return &mockAuthorizer{
		VerifyStatusSecretFunc: func(ctx context.Context, secret string) error {
			if secret != want {
				return apperrors.NewAuthorizationError("wrong secret")
			}
			return nil
		},
	}
}

type mockEditor struct {
	draft   domain.Order
	open    bool
	saved   []domain.Order
	saveErr error
}

func (m *mockEditor) Draft() (domain.Order, bool) {
	return m.draft, m.open
}

func (m *mockEditor) UpdateField(name, value string) error {
	updated, err := m.draft.WithField(name, value)
	if err != nil {
		return err
	}
	m.draft = updated
	return nil
}

func (m *mockEditor) Save(ctx context.Context) (domain.Order, error) {
	if m.saveErr != nil {
		return domain.Order{}, m.saveErr
	}
	m.saved = append(m.saved, m.draft)
	return m.draft, nil
}

func openEditor() *mockEditor {
	return &mockEditor{
		open: true,
		draft: domain.Order{
			ID:              "ORD001",
			PlanID:          "PLN002",
			PassengerName:   "Zhang San",
			NumOfPassengers: 2,
			TotalAmount:     598,
			Status:          domain.OrderStatusUnpaid,
		},
	}
}

func newTestGate(auth Authorizer, editor StatusEditor) (*Gate, *notice.Board) {
	board := notice.NewBoard()
	return New(auth, editor, board, DefaultOptions()), board
}

func TestGate_RequestChangeDoesNotMutate(t *testing.T) {
	editor := openEditor()
	g, _ := newTestGate(secretIs("s3cret"), editor)

	require.NoError(t, g.RequestChange())

	assert.Equal(t, StatePrompting, g.State())
	assert.Equal(t, domain.OrderStatusUnpaid, editor.draft.Status)
	assert.Empty(t, editor.saved)
}

func TestGate_RequestChangeNeedsOpenOrder(t *testing.T) {
	g, _ := newTestGate(secretIs("s3cret"), &mockEditor{})

	err := g.RequestChange()

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, StateClosed, g.State())
}

func TestGate_WrongSecretKeepsGateClosed(t *testing.T) {
	editor := openEditor()
	g, board := newTestGate(secretIs("s3cret"), editor)
	defer board.Close()
	require.NoError(t, g.RequestChange())

	err := g.Verify(context.Background(), "wrong-secret")

	_, ok := apperrors.IsAuthorizationError(err)
	require.True(t, ok)
	assert.NotEqual(t, StateOpen, g.State())

	msg, shown := board.Current()
	require.True(t, shown)
	assert.Equal(t, notice.LevelError, msg.Level)

	_, err = g.Commit(context.Background(), domain.OrderStatusCompleted)
	_, forbidden := apperrors.IsForbiddenError(err)
	assert.True(t, forbidden)
	assert.Empty(t, editor.saved)
}

func TestGate_ErrorNoticeClearsAfterTTL(t *testing.T) {
	board := notice.NewBoard()
	defer board.Close()
	opts := DefaultOptions()
	opts.ErrorNoticeTTL = 20 * time.Millisecond
	g := New(secretIs("s3cret"), openEditor(), board, opts)
	require.NoError(t, g.RequestChange())

	_ = g.Verify(context.Background(), "nope")

	assert.Eventually(t, func() bool {
		_, shown := board.Current()
		return !shown
	}, time.Second, 5*time.Millisecond)
}

func TestGate_EmptySecret(t *testing.T) {
	auth := &mockAuthorizer{
		VerifyStatusSecretFunc: func(ctx context.Context, secret string) error {
			t.Fatal("authorizer must not be called for an empty secret")
			return nil
		},
	}
	g, _ := newTestGate(auth, openEditor())
	require.NoError(t, g.RequestChange())

	err := g.Verify(context.Background(), "  ")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, StatePrompting, g.State())
}

func TestGate_VerifyWithoutRequest(t *testing.T) {
	g, _ := newTestGate(secretIs("s3cret"), openEditor())

	err := g.Verify(context.Background(), "s3cret")

	assert.Error(t, err)
	assert.Equal(t, StateClosed, g.State())
}

func TestGate_CommitAfterVerify(t *testing.T) {
	editor := openEditor()
	g, _ := newTestGate(secretIs("s3cret"), editor)
	require.NoError(t, g.RequestChange())
	require.NoError(t, g.Verify(context.Background(), "s3cret"))
	assert.Equal(t, StateOpen, g.State())

	saved, err := g.Commit(context.Background(), domain.OrderStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCompleted, saved.Status)
	require.Len(t, editor.saved, 1)
	assert.Equal(t, StateClosed, g.State())
}

func TestGate_CommitRejectsUnknownStatus(t *testing.T) {
	editor := openEditor()
	g, _ := newTestGate(secretIs("s3cret"), editor)
	require.NoError(t, g.RequestChange())
	require.NoError(t, g.Verify(context.Background(), "s3cret"))

	_, err := g.Commit(context.Background(), "refunded")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, StateOpen, g.State())
	assert.Empty(t, editor.saved)
}

func TestGate_CommitSaveFailureKeepsGateOpen(t *testing.T) {
	editor := openEditor()
	editor.saveErr = errors.New("backend unavailable")
	g, _ := newTestGate(secretIs("s3cret"), editor)
	require.NoError(t, g.RequestChange())
	require.NoError(t, g.Verify(context.Background(), "s3cret"))

	_, err := g.Commit(context.Background(), domain.OrderStatusCancelled)

	assert.Error(t, err)
	assert.Equal(t, StateOpen, g.State())
}

func TestGate_TransportErrorIsNotCountedAsFailure(t *testing.T) {
	auth := &mockAuthorizer{
		VerifyStatusSecretFunc: func(ctx context.Context, secret string) error {
			return errors.New("connection refused")
		},
	}
	board := notice.NewBoard()
	opts := DefaultOptions()
	opts.MaxAttempts = 1
	g := New(auth, openEditor(), board, opts)
	require.NoError(t, g.RequestChange())

	err := g.Verify(context.Background(), "s3cret")

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, StatePrompting, g.State())
}

func TestGate_LockoutAfterMaxAttempts(t *testing.T) {
	board := notice.NewBoard()
	defer board.Close()
	opts := DefaultOptions()
	opts.MaxAttempts = 2
	opts.Lockout = time.Minute
	g := New(secretIs("s3cret"), openEditor(), board, opts)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	require.NoError(t, g.RequestChange())
	_ = g.Verify(context.Background(), "a")
	_ = g.Verify(context.Background(), "b")
	assert.Equal(t, StateLocked, g.State())

	err := g.Verify(context.Background(), "s3cret")
	_, forbidden := apperrors.IsForbiddenError(err)
	assert.True(t, forbidden)

	g.Cancel()
	assert.Equal(t, StateLocked, g.State())

	now = now.Add(time.Minute)
	assert.Equal(t, StateClosed, g.State())
	require.NoError(t, g.RequestChange())
	require.NoError(t, g.Verify(context.Background(), "s3cret"))
}

func TestPasscodeAuthorizer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewPasscodeAuthorizer(string(hash))

	assert.NoError(t, auth.VerifyStatusSecret(context.Background(), "s3cret"))

	err = auth.VerifyStatusSecret(context.Background(), "wrong-secret")
	_, ok := apperrors.IsAuthorizationError(err)
	assert.True(t, ok)
}

func TestPasscodeAuthorizer_NoHashConfigured(t *testing.T) {
	err := NewPasscodeAuthorizer("").VerifyStatusSecret(context.Background(), "anything")

	_, ok := apperrors.IsAuthorizationError(err)
	assert.True(t, ok)
}
