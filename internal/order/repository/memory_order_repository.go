package repository

import (
	"context"
	"fmt"
	"time"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/infrastructure/memory"
)

type MemoryOrderRepository struct {
	store *memory.Store
}

func NewMemoryOrderRepository(store *memory.Store) *MemoryOrderRepository {
	return &MemoryOrderRepository{store: store}
}

func (r *MemoryOrderRepository) List(_ context.Context, f domain.Filter) ([]domain.Order, error) {
	return r.store.Orders.Select(func(o domain.Order) bool { return o.Matches(f) }), nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (domain.Order, error) {
	return r.store.Orders.Get(id)
}

func (r *MemoryOrderRepository) Update(_ context.Context, o domain.Order) (domain.Order, error) {
	if err := r.store.Orders.Put(o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *MemoryOrderRepository) CompareAndSetStatus(_ context.Context, id, from, to string) (domain.Order, error) {
	return r.store.Orders.Modify(id, func(o domain.Order) (domain.Order, error) {
		if o.Status != from && o.Status != to {
			return o, apperrors.NewConflictError(fmt.Sprintf("order %s changed status to %s concurrently", id, o.Status))
		}
		o.Status = to
		return o, nil
	})
}

func (r *MemoryOrderRepository) Place(_ context.Context, draft domain.Order, date time.Time) (domain.Order, error) {
	r.store.PlanMu.Lock()
	defer r.store.PlanMu.Unlock()

	plan, err := r.store.Plans.Get(draft.PlanID)
	if err != nil {
		return domain.Order{}, err
	}
	draft.ID = r.store.Orders.NextID()
	order, plan, err := draft.PlaceOn(plan, date)
	if err != nil {
		return domain.Order{}, err
	}
	if err := r.store.Orders.Insert(order); err != nil {
		return domain.Order{}, err
	}
	if err := r.store.Plans.Put(plan); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
