// Package memory is the in-process store used when no database is
// configured. Tables keep insertion order so listings are deterministic.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

type Table[T domain.Record[T]] struct {
	kind domain.Kind

	mu    sync.RWMutex
	rows  map[string]T
	order []string
	seq   int
}

func NewTable[T domain.Record[T]](kind domain.Kind) *Table[T] {
	return &Table[T]{
		kind: kind,
		rows: make(map[string]T),
	}
}

// Select returns the rows accepted by keep, in insertion order.
func (t *Table[T]) Select(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[T]) Get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", t.kind, id))
	}
	return row, nil
}

// NextID reserves the next id in sequence.
func (t *Table[T]) NextID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return domain.FormatID(t.kind, t.seq)
}

// Insert adds row. The sequence is advanced past the row's id so seeded
// fixtures are never reissued.
func (t *Table[T]) Insert(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := row.GetID()
	if _, exists := t.rows[id]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("%s with id %s already exists", t.kind, id))
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	if n, ok := domain.ParseSequence(t.kind, id); ok && n > t.seq {
		t.seq = n
	}
	return nil
}

func (t *Table[T]) Put(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := row.GetID()
	if _, ok := t.rows[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", t.kind, id))
	}
	t.rows[id] = row
	return nil
}

// Modify applies fn to the row with id under the table lock and stores the
// result unless fn fails.
func (t *Table[T]) Modify(id string, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", t.kind, id))
	}
	updated, err := fn(row)
	if err != nil {
		return row, err
	}
	t.rows[id] = updated
	return updated, nil
}

func (t *Table[T]) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", t.kind, id))
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	return nil
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
