package memory

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

// Store groups the tables of one in-memory catalog. PlanMu serializes
// writes that touch an order and its plan together.
type Store struct {
	Plans    *Table[domain.Plan]
	Orders   *Table[domain.Order]
	Comments *Table[domain.Comment]
	Accounts *Accounts

	PlanMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		Plans:    NewTable[domain.Plan](domain.KindPlan),
		Orders:   NewTable[domain.Order](domain.KindOrder),
		Comments: NewTable[domain.Comment](domain.KindComment),
		Accounts: NewAccounts(),
	}
}

// Seed loads fixtures into the store, hashing account passwords with cost.
func (s *Store) Seed(fx *commons.Fixtures, cost int) error {
	for _, a := range fx.Accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", a.Name, err)
		}
		if err := s.Accounts.Insert(domain.Account{Name: a.Name, PasswordHash: string(hash), Role: a.Role}); err != nil {
			return err
		}
	}
	for _, p := range fx.Plans {
		if err := s.Plans.Insert(p); err != nil {
			return err
		}
	}
	for _, o := range fx.Orders {
		if err := s.Orders.Insert(o); err != nil {
			return err
		}
	}
	for _, c := range fx.Comments {
		if err := s.Comments.Insert(c); err != nil {
			return err
		}
	}
	return nil
}

type Accounts struct {
	mu   sync.RWMutex
	rows map[string]domain.Account
}

func NewAccounts() *Accounts {
	return &Accounts{rows: make(map[string]domain.Account)}
}

func (a *Accounts) Get(name string) (domain.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.rows[name]
	if !ok {
		return domain.Account{}, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", name))
	}
	return acc, nil
}

func (a *Accounts) Insert(acc domain.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.rows[acc.Name]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("account %s already exists", acc.Name))
	}
	a.rows[acc.Name] = acc
	return nil
}
