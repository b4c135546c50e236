package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	"travelbook/internal/listing"
	"travelbook/internal/plan/service"
)

type PlanService interface {
	List(ctx context.Context, q service.Query) ([]domain.Plan, error)
	Get(ctx context.Context, id string) (domain.Plan, error)
	Create(ctx context.Context, p domain.Plan) (domain.Plan, error)
	Update(ctx context.Context, id string, p domain.Plan) (domain.Plan, error)
	ToggleStatus(ctx context.Context, id string) (domain.Plan, error)
}

type PlanController struct {
	service PlanService
	logger  *zap.Logger
}

func NewPlanController(service PlanService, logger *zap.Logger) *PlanController {
	return &PlanController{service: service, logger: logger}
}

// List serves both the catalog and the route search. Query parameters:
// departure, destination, status, search, sort and order.
func (c *PlanController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	q := r.URL.Query()
	dir, err := listing.ParseDirection(q.Get("order"))
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	plans, err := c.service.List(r.Context(), service.Query{
		Filter: domain.Filter{
			Status:      q.Get("status"),
			Departure:   q.Get("departure"),
			Destination: q.Get("destination"),
			Search:      q.Get("search"),
		},
		SortBy:    domain.Criterion(q.Get("sort")),
		Direction: dir,
	})
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromPlans(plans)))
}

func (c *PlanController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	p, err := c.service.Get(r.Context(), chi.URLParam(r, "planId"))
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.FromPlan(p))
}

func (c *PlanController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.PlanDTO
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	p, err := req.ToDomain()
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	created, err := c.service.Create(r.Context(), p)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusCreated, dto.FromPlan(created))
}

func (c *PlanController) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.PlanDTO
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	p, err := req.ToDomain()
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}

	updated, err := c.service.Update(r.Context(), chi.URLParam(r, "planId"), p)
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.FromPlan(updated))
}

func (c *PlanController) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	p, err := c.service.ToggleStatus(r.Context(), chi.URLParam(r, "planId"))
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.FromPlan(p))
}
