package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"travelbook/internal/commons"
	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/events"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/listing"
	"travelbook/internal/metrics"
	"travelbook/internal/server"
	"travelbook/internal/session"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	fx, err := commons.LoadFixtures(filepath.Join("..", "config", "fixtures.yaml"))
	require.NoError(t, err)
	store := memory.NewStore()
	require.NoError(t, store.Seed(fx, bcrypt.MinCost))
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	logger := zap.NewNop()
	sessions := session.NewStore(time.Hour)
	m := metrics.New()
	deps := server.Deps{
		Config: &config.Config{
			Auth:  config.AuthConfig{StaffPasscodeHash: string(hash), BcryptCost: bcrypt.MinCost},
			Order: config.OrderConfig{PlaceTxTimeout: time.Second, MaxRetryAttempts: 1},
		},
		Sessions:  sessions,
		Publisher: events.NewLogPublisher(logger),
		Metrics:   m,
		Logger:    logger,
	}
	srv := httptest.NewServer(server.NewRouter(server.NewMemoryControllers(store, deps), sessions, m, logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginSetsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			json.NewEncoder(w).Encode(dto.LoginResponse{Account: "admin", Role: "staff", Token: "tok-1"})
		case "/api/staff/verify":
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, zap.NewNop())
	sess, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, sess.IsStaff())

	require.NoError(t, c.VerifyStatusSecret(context.Background(), "open-sesame"))
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders/ORD404":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Status: 404, Code: commons.CodeNotFound, Message: "order with id ORD404 not found"})
		case "/api/orders/ORD001":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(dto.ErrorResponse{
				Status: 400, Code: commons.CodeValidation, Message: "invalid order",
				Details: []apperrors.ValidationDetail{{Field: "numOfPassengers", Message: "must be positive"}},
			})
		default:
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	orders := New(srv.URL, time.Second, zap.NewNop()).Orders()
	ctx := context.Background()

	_, err := orders.FindByID(ctx, "ORD404")
	nf, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "order with id ORD404 not found", nf.Message)

	_, err = orders.Update(ctx, domain.Order{ID: "ORD001"})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "numOfPassengers", ve.Details[0].Field)

	_, err = orders.List(ctx, domain.Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestClient_OrdersAndPlansAreNotDeletable(t *testing.T) {
	c := New("http://unused", time.Second, zap.NewNop())

	_, ok := apperrors.IsForbiddenError(c.Orders().Delete(context.Background(), "ORD001"))
	assert.True(t, ok)
	_, ok = apperrors.IsForbiddenError(c.Plans().Delete(context.Background(), "PLN001"))
	assert.True(t, ok)
}

func TestClient_ManagerOverBackend(t *testing.T) {
	srv := newBackend(t)
	c := New(srv.URL, 5*time.Second, zap.NewNop())
	ctx := context.Background()

	_, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	orders := listing.NewManager[domain.Order]("order", c.Orders())
	require.NoError(t, orders.Load(ctx, domain.Filter{Status: domain.StatusAll}))
	assert.Equal(t, 4, orders.Len())

	unpaid := orders.FilterByStatus(domain.OrderStatusUnpaid)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "ORD001", unpaid[0].ID)

	comments := listing.NewManager[domain.Comment]("comment", c.Comments())
	require.NoError(t, comments.Load(ctx, domain.Filter{PlanID: "PLN001"}))
	assert.Equal(t, 2, comments.Len())

	require.NoError(t, c.Comments().Delete(ctx, "CMT001"))
	_, err = c.Comments().FindByID(ctx, "CMT001")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	assert.NoError(t, c.VerifyStatusSecret(ctx, "open-sesame"))
	_, ok = apperrors.IsAuthorizationError(c.VerifyStatusSecret(ctx, "guess"))
	assert.True(t, ok)

	popular, err := c.PopularPlans(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PLN002", popular[0].ID)

	require.NoError(t, c.Logout(ctx))
	assert.Nil(t, c.Session())
	_, err = c.Orders().List(ctx, domain.Filter{})
	_, ok = apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestClient_UserOrderFlow(t *testing.T) {
	srv := newBackend(t)
	c := New(srv.URL, 5*time.Second, zap.NewNop())
	ctx := context.Background()

	_, err := c.Login(ctx, "zhangsan", "zhangsan123")
	require.NoError(t, err)

	placed, err := c.PlaceOrder(ctx, dto.PlaceOrderRequest{PlanID: "PLN002", PassengerName: "Zhang San", NumOfPassengers: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnpaid, placed.Status)

	paid, err := c.Orders().Pay(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnused, paid.Status)

	cancelled, err := c.Orders().Cancel(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	_, err = c.Orders().Process(ctx, placed.ID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}

func TestClient_StaffCreatesPlanAndUserReviews(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	staff := New(srv.URL, 5*time.Second, zap.NewNop())
	_, err := staff.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	plan, err := staff.CreatePlan(ctx, domain.Plan{
		Title:       "Chengdu food tour",
		Departure:   "Shanghai",
		Destination: "Chengdu",
		Price:       899,
		Days:        4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, domain.PlanStatusActive, plan.Status)

	completed, err := staff.Orders().Process(ctx, "ORD002")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)

	user := New(srv.URL, 5*time.Second, zap.NewNop())
	_, err = user.Login(ctx, "lisi", "lisi123")
	require.NoError(t, err)

	review, err := user.CreateComment(ctx, dto.CreateCommentRequest{OrderID: "ORD002", Content: "Smooth trip", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, completed.PlanID, review.PlanID)
	assert.Equal(t, "lisi", review.Account)

	_, err = user.CreateComment(ctx, dto.CreateCommentRequest{OrderID: "ORD002", Content: "Again", Rating: 5})
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	_, err = user.CreatePlan(ctx, domain.Plan{Title: "x", Departure: "a", Destination: "b", Days: 1})
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}
