package repository

import (
	"context"

	"travelbook/internal/domain"
	"travelbook/internal/infrastructure/memory"
)

type MemoryCommentRepository struct {
	store *memory.Store
}

func NewMemoryCommentRepository(store *memory.Store) *MemoryCommentRepository {
	return &MemoryCommentRepository{store: store}
}

func (r *MemoryCommentRepository) List(_ context.Context, f domain.Filter) ([]domain.Comment, error) {
	return r.store.Comments.Select(func(c domain.Comment) bool { return c.Matches(f) }), nil
}

func (r *MemoryCommentRepository) FindByID(_ context.Context, id string) (domain.Comment, error) {
	return r.store.Comments.Get(id)
}

func (r *MemoryCommentRepository) ExistsForOrder(_ context.Context, orderID string) (bool, error) {
	matches := r.store.Comments.Select(func(c domain.Comment) bool { return c.OrderID == orderID })
	return len(matches) > 0, nil
}

func (r *MemoryCommentRepository) Create(_ context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = r.store.Comments.NextID()
	if err := r.store.Comments.Insert(c); err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

func (r *MemoryCommentRepository) Update(_ context.Context, c domain.Comment) (domain.Comment, error) {
	return r.store.Comments.Modify(c.ID, func(existing domain.Comment) (domain.Comment, error) {
		c.OrderID, c.Account = existing.OrderID, existing.Account
		return c, nil
	})
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	return r.store.Comments.Delete(id)
}
