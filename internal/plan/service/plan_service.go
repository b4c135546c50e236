package service

import (
	"context"

	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/listing"
)

type PlanRepository interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Plan, error)
	FindByID(ctx context.Context, id string) (domain.Plan, error)
	Create(ctx context.Context, p domain.Plan) (domain.Plan, error)
	Update(ctx context.Context, p domain.Plan) (domain.Plan, error)
	ToggleStatus(ctx context.Context, id string) (domain.Plan, error)
}

// Query is a plan search with optional ordering.
type Query struct {
	Filter    domain.Filter
	SortBy    domain.Criterion
	Direction listing.Direction
}

type PlanService struct {
	repo   PlanRepository
	logger *zap.Logger
}

func NewPlanService(repo PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{repo: repo, logger: logger}
}

func (s *PlanService) List(ctx context.Context, q Query) ([]domain.Plan, error) {
	plans, err := s.repo.List(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	if q.SortBy == "" {
		return plans, nil
	}
	dir := q.Direction
	if dir == "" {
		dir = listing.Asc
	}
	return listing.Sort("plan", plans, q.SortBy, dir)
}

func (s *PlanService) Get(ctx context.Context, id string) (domain.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new plan. New plans start with no orders and default to
// active.
func (s *PlanService) Create(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	if p.Status == "" {
		p.Status = domain.PlanStatusActive
	}
	p.OrderCount = 0
	if err := p.Validate(); err != nil {
		return domain.Plan{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Plan{}, err
	}
	s.logger.Info("plan created", zap.String("planId", created.ID), zap.String("title", created.Title))
	return created, nil
}

func (s *PlanService) Update(ctx context.Context, id string, p domain.Plan) (domain.Plan, error) {
	p.ID = id
	if err := p.Validate(); err != nil {
		return domain.Plan{}, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.Plan{}, err
	}
	s.logger.Info("plan updated", zap.String("planId", id))
	return updated, nil
}

func (s *PlanService) ToggleStatus(ctx context.Context, id string) (domain.Plan, error) {
	p, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}
	s.logger.Info("plan status toggled", zap.String("planId", id), zap.String("status", p.Status))
	return p, nil
}
