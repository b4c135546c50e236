// Package listing keeps an in-memory collection of records fetched from a
// Source and answers search, filter and sort queries over it.
package listing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

// ErrStaleLoad is returned by Load when a newer Load started before this one
// finished. The stale result is discarded.
var ErrStaleLoad = errors.New("listing: load superseded by a newer request")

// Source is the backend collaborator behind a collection.
type Source[T domain.Record[T]] interface {
	List(ctx context.Context, filter domain.Filter) ([]T, error)
	FindByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Asc, "":
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", apperrors.NewValidationError("direction must be asc or desc", apperrors.ValidationDetail{
		Field:   "direction",
		Message: fmt.Sprintf("unknown direction %q", s),
	})
}

type Manager[T domain.Record[T]] struct {
	source Source[T]
	name   string

	mu     sync.RWMutex
	items  []T
	loaded bool
	gen    uint64
}

// NewManager returns an empty manager. name is used in user-facing
// messages ("order", "plan", ...).
func NewManager[T domain.Record[T]](name string, source Source[T]) *Manager[T] {
	return &Manager[T]{source: source, name: name}
}

func (m *Manager[T]) Name() string {
	return m.name
}

func (m *Manager[T]) Source() Source[T] {
	return m.source
}

// Load replaces the collection with the source's current contents. On
// failure the previous collection is kept and a *FetchError is returned.
func (m *Manager[T]) Load(ctx context.Context, filter domain.Filter) error {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	items, err := m.source.List(ctx, filter)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return ErrStaleLoad
	}
	if err != nil {
		return apperrors.NewFetchError(m.name+"s", err)
	}
	m.items = slices.Clone(items)
	m.loaded = true
	return nil
}

func (m *Manager[T]) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Items returns a copy of the collection in load order.
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Manager[T]) Empty() bool {
	return m.Len() == 0
}

// FindByID does a linear search by id.
func (m *Manager[T]) FindByID(id string) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		msg := "please enter a " + m.name + " id"
		return zero, apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "id", Message: msg})
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexLocked(id)
	if i < 0 {
		return zero, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", m.name, id))
	}
	return m.items[i], nil
}

// FilterByStatus returns the records whose status equals status, or every
// record when status is "all". The collection is not modified.
func (m *Manager[T]) FilterByStatus(status string) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if status == domain.StatusAll {
		return slices.Clone(m.items)
	}
	out := make([]T, 0, len(m.items))
	for _, item := range m.items {
		if item.GetStatus() == status {
			out = append(out, item)
		}
	}
	return out
}

// SortBy returns the collection sorted by criterion. The sort is stable, so
// records with equal keys keep their load order in both directions.
func (m *Manager[T]) SortBy(criterion domain.Criterion, direction Direction) ([]T, error) {
	return Sort(m.name, m.Items(), criterion, direction)
}

// Sort stably sorts items in place by criterion and returns them. name
// labels the record type in the error for an unsupported criterion.
func Sort[T domain.Record[T]](name string, items []T, criterion domain.Criterion, direction Direction) ([]T, error) {
	var zero T
	if _, ok := zero.SortKey(criterion); !ok {
		msg := fmt.Sprintf("%ss cannot be sorted by %q", name, criterion)
		return nil, apperrors.NewValidationError(msg, apperrors.ValidationDetail{Field: "criterion", Message: msg})
	}
	if direction != Asc && direction != Desc {
		return nil, apperrors.NewValidationError("direction must be asc or desc")
	}

	slices.SortStableFunc(items, func(a, b T) int {
		ka, _ := a.SortKey(criterion)
		kb, _ := b.SortKey(criterion)
		c := compareKeys(ka, kb)
		if direction == Desc {
			return -c
		}
		return c
	})
	return items, nil
}

func compareKeys(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Replace swaps the record with the same id for record.
func (m *Manager[T]) Replace(record T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(record.GetID())
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", m.name, record.GetID()))
	}
	m.items[i] = record
	return nil
}

// Remove deletes exactly one record.
func (m *Manager[T]) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", m.name, id))
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}

// Append adds a newly created record at the end of the collection.
func (m *Manager[T]) Append(record T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(record.GetID()) >= 0 {
		return apperrors.NewConflictError(fmt.Sprintf("%s %s already exists", m.name, record.GetID()))
	}
	m.items = append(m.items, record)
	return nil
}

func (m *Manager[T]) indexLocked(id string) int {
	return slices.IndexFunc(m.items, func(item T) bool { return item.GetID() == id })
}
