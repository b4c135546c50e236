package repository

import (
	"context"

	"travelbook/internal/domain"
	"travelbook/internal/infrastructure/memory"
)

type MemoryPlanRepository struct {
	store *memory.Store
}

func NewMemoryPlanRepository(store *memory.Store) *MemoryPlanRepository {
	return &MemoryPlanRepository{store: store}
}

func (r *MemoryPlanRepository) List(_ context.Context, f domain.Filter) ([]domain.Plan, error) {
	return r.store.Plans.Select(func(p domain.Plan) bool { return p.Matches(f) }), nil
}

func (r *MemoryPlanRepository) FindByID(_ context.Context, id string) (domain.Plan, error) {
	return r.store.Plans.Get(id)
}

func (r *MemoryPlanRepository) Create(_ context.Context, p domain.Plan) (domain.Plan, error) {
	p.ID = r.store.Plans.NextID()
	if err := r.store.Plans.Insert(p); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

func (r *MemoryPlanRepository) Update(_ context.Context, p domain.Plan) (domain.Plan, error) {
	r.store.PlanMu.Lock()
	defer r.store.PlanMu.Unlock()
	if err := r.store.Plans.Put(p); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

func (r *MemoryPlanRepository) ToggleStatus(_ context.Context, id string) (domain.Plan, error) {
	r.store.PlanMu.Lock()
	defer r.store.PlanMu.Unlock()
	return r.store.Plans.Modify(id, func(p domain.Plan) (domain.Plan, error) {
		p.Status = domain.ToggledPlanStatus(p.Status)
		return p, nil
	})
}
