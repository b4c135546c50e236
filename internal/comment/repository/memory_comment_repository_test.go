package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/infrastructure/memory"
)

func sampleComment(id, planID, orderID string, rating int) domain.Comment {
	return domain.Comment{
		ID: id, PlanID: planID, OrderID: orderID, Account: "zhangsan",
		Content: "Great trip", Rating: rating, Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

func newRepo(t *testing.T) *MemoryCommentRepository {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Comments.Insert(sampleComment("CMT001", "PLN001", "ORD003", 5)))
	require.NoError(t, store.Comments.Insert(sampleComment("CMT002", "PLN002", "", 3)))
	return NewMemoryCommentRepository(store)
}

func TestMemoryCommentRepository_ListStatusSemantics(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	all, err := repo.List(ctx, domain.Filter{Status: domain.StatusAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := repo.List(ctx, domain.Filter{Status: domain.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Empty(t, none)

	byPlan, err := repo.List(ctx, domain.Filter{PlanID: "PLN002"})
	require.NoError(t, err)
	require.Len(t, byPlan, 1)
	assert.Equal(t, "CMT002", byPlan[0].ID)
}

func TestMemoryCommentRepository_ExistsForOrder(t *testing.T) {
	repo := newRepo(t)

	ok, err := repo.ExistsForOrder(context.Background(), "ORD003")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsForOrder(context.Background(), "ORD001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCommentRepository_CreateUpdateDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleComment("", "PLN003", "ORD004", 4))
	require.NoError(t, err)
	assert.Equal(t, "CMT003", created.ID)

	edit := created
	edit.Content = "Edited"
	edit.Account = "mallory"
	updated, err := repo.Update(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)
	assert.Equal(t, "zhangsan", updated.Account)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
