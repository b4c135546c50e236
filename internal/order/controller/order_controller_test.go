package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type mockOrderService struct {
	ListFunc      func(ctx context.Context, sess *session.Session, f domain.Filter) ([]domain.Order, error)
	GetFunc       func(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	UpdateFunc    func(ctx context.Context, sess *session.Session, id string, o domain.Order) (domain.Order, error)
	SetStatusFunc func(ctx context.Context, sess *session.Session, id, status string) (domain.Order, error)
	PayFunc       func(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	ProcessFunc   func(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	CancelFunc    func(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
}

func (m *mockOrderService) List(ctx context.Context, sess *session.Session, f domain.Filter) ([]domain.Order, error) {
	return m.ListFunc(ctx, sess, f)
}

func (m *mockOrderService) Get(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	return m.GetFunc(ctx, sess, id)
}

func (m *mockOrderService) Update(ctx context.Context, sess *session.Session, id string, o domain.Order) (domain.Order, error) {
	return m.UpdateFunc(ctx, sess, id, o)
}

func (m *mockOrderService) SetStatus(ctx context.Context, sess *session.Session, id, status string) (domain.Order, error) {
	return m.SetStatusFunc(ctx, sess, id, status)
}

func (m *mockOrderService) Pay(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	return m.PayFunc(ctx, sess, id)
}

func (m *mockOrderService) Process(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	return m.ProcessFunc(ctx, sess, id)
}

func (m *mockOrderService) Cancel(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	return m.CancelFunc(ctx, sess, id)
}

type mockPlaceOrderUseCase struct {
	PlaceOrderFunc func(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error)
}

func (m *mockPlaceOrderUseCase) PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error) {
	return m.PlaceOrderFunc(ctx, sess, req)
}

var caller = &session.Session{Account: "zhangsan", Role: domain.RoleUser}

func newRouter(svc OrderService, placer PlaceOrderUseCase) http.Handler {
	c := NewOrderController(svc, placer, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), caller)))
		})
	})
	r.Get("/orders", c.List)
	r.Post("/orders", c.Place)
	r.Get("/orders/{orderId}", c.Get)
	r.Put("/orders/{orderId}", c.Update)
	r.Put("/orders/{orderId}/status", c.SetStatus)
	r.Post("/orders/{orderId}/pay", c.Pay)
	r.Patch("/orders/{orderId}/process", c.Process)
	r.Patch("/orders/{orderId}/cancel", c.Cancel)
	return r
}

func sampleOrder(status string) domain.Order {
	return domain.Order{
		ID: "ORD001", PlanID: "PLN001", Account: "zhangsan", PassengerName: "Zhang San",
		NumOfPassengers: 2, TotalAmount: 2000, Status: status,
		OrderDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOrderController_ListUsesSessionAndQuery(t *testing.T) {
	var gotSess *session.Session
	var gotFilter domain.Filter
	svc := &mockOrderService{
		ListFunc: func(ctx context.Context, sess *session.Session, f domain.Filter) ([]domain.Order, error) {
			gotSess, gotFilter = sess, f
			return []domain.Order{sampleOrder(domain.OrderStatusUnpaid)}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?status=unpaid&search=Zhang", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "zhangsan", gotSess.Account)
	assert.Equal(t, "unpaid", gotFilter.Status)
	assert.Equal(t, "Zhang", gotFilter.Search)

	var resp dto.ListResponse[dto.OrderDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2025-06-01", resp.Items[0].OrderDate)
}

func TestOrderController_Place(t *testing.T) {
	var gotReq dto.PlaceOrderRequest
	placer := &mockPlaceOrderUseCase{
		PlaceOrderFunc: func(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error) {
			gotReq = req
			return sampleOrder(domain.OrderStatusUnpaid), nil
		},
	}
	body := `{"planId":"PLN001","passengerName":"Zhang San","numOfPassengers":2}`

	rec := httptest.NewRecorder()
	newRouter(&mockOrderService{}, placer).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, gotReq.NumOfPassengers)
	assert.Contains(t, rec.Body.String(), `"status":"unpaid"`)
}

func TestOrderController_PlaceConflict(t *testing.T) {
	placer := &mockPlaceOrderUseCase{
		PlaceOrderFunc: func(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error) {
			return domain.Order{}, apperrors.NewConflictError("plan PLN002 is not open for booking")
		},
	}

	rec := httptest.NewRecorder()
	newRouter(&mockOrderService{}, placer).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"planId":"PLN002"}`)))

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Code)
}

func TestOrderController_SetStatus(t *testing.T) {
	var gotStatus string
	svc := &mockOrderService{
		SetStatusFunc: func(ctx context.Context, sess *session.Session, id, status string) (domain.Order, error) {
			gotStatus = status
			return sampleOrder(status), nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/ORD001/status", strings.NewReader(`{"status":"cancelled"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderStatusCancelled, gotStatus)
}

func TestOrderController_ProcessForbidden(t *testing.T) {
	svc := &mockOrderService{
		ProcessFunc: func(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
			return domain.Order{}, apperrors.NewForbiddenError("only staff may process orders")
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/ORD001/process", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderController_UpdateBadDate(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"planId":"PLN001","passengerName":"x","numOfPassengers":1,"status":"unpaid","orderDate":"yesterday"}`
	newRouter(&mockOrderService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/ORD001", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderController_PayAndCancel(t *testing.T) {
	svc := &mockOrderService{
		PayFunc: func(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
			return sampleOrder(domain.OrderStatusUnused), nil
		},
		CancelFunc: func(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
			return domain.Order{}, apperrors.NewNotFoundError("order with id " + id + " not found")
		},
	}
	router := newRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/ORD001/pay", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unused"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/ORD404/cancel", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
