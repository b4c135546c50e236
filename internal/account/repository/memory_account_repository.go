package repository

import (
	"context"

	"travelbook/internal/domain"
	"travelbook/internal/infrastructure/memory"
)

type MemoryAccountRepository struct {
	accounts *memory.Accounts
}

func NewMemoryAccountRepository(store *memory.Store) *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: store.Accounts}
}

func (r *MemoryAccountRepository) FindByName(_ context.Context, name string) (domain.Account, error) {
	return r.accounts.Get(name)
}

func (r *MemoryAccountRepository) Create(_ context.Context, a domain.Account) error {
	return r.accounts.Insert(a)
}
