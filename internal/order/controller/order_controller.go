package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	"travelbook/internal/session"
)

type OrderService interface {
	List(ctx context.Context, sess *session.Session, f domain.Filter) ([]domain.Order, error)
	Get(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	Update(ctx context.Context, sess *session.Session, id string, o domain.Order) (domain.Order, error)
	SetStatus(ctx context.Context, sess *session.Session, id, status string) (domain.Order, error)
	Pay(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	Process(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
	Cancel(ctx context.Context, sess *session.Session, id string) (domain.Order, error)
}

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (domain.Order, error)
}

type OrderController struct {
	service OrderService
	placer  PlaceOrderUseCase
	logger  *zap.Logger
}

func NewOrderController(service OrderService, placer PlaceOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{service: service, placer: placer, logger: logger}
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	q := r.URL.Query()
	orders, err := c.service.List(r.Context(), session.FromContext(r.Context()), domain.Filter{
		Status: q.Get("status"),
		PlanID: q.Get("planId"),
		Search: q.Get("search"),
	})
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromOrders(orders)))
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	o, err := c.service.Get(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"))
	c.respond(w, logger, traceID, http.StatusOK, o, err)
}

func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.PlaceOrderRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	o, err := c.placer.PlaceOrder(r.Context(), session.FromContext(r.Context()), req)
	c.respond(w, logger, traceID, http.StatusCreated, o, err)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.OrderDTO
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	o, err := req.ToDomain()
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	updated, err := c.service.Update(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"), o)
	c.respond(w, logger, traceID, http.StatusOK, updated, err)
}

func (c *OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.UpdateStatusRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	o, err := c.service.SetStatus(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"), req.Status)
	c.respond(w, logger, traceID, http.StatusOK, o, err)
}

func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	o, err := c.service.Pay(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"))
	c.respond(w, logger, traceID, http.StatusOK, o, err)
}

func (c *OrderController) Process(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	o, err := c.service.Process(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"))
	c.respond(w, logger, traceID, http.StatusOK, o, err)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	o, err := c.service.Cancel(r.Context(), session.FromContext(r.Context()), chi.URLParam(r, "orderId"))
	c.respond(w, logger, traceID, http.StatusOK, o, err)
}

func (c *OrderController) respond(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, o domain.Order, err error) {
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, status, dto.FromOrder(o))
}
