// Package detail implements the list/detail view state machine: a record is
// opened into a private draft, edited field by field and either saved back
// into the owning collection or discarded.
package detail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/listing"
	"travelbook/internal/notice"
)

type Mode string

const (
	ModeList   Mode = "list"
	ModeDetail Mode = "detail"
)

type Options struct {
	// SaveNoticeTTL and DeleteNoticeTTL bound how long confirmations stay
	// visible.
	SaveNoticeTTL   time.Duration
	DeleteNoticeTTL time.Duration
	// ReturnAfterSave sends the view back to the list once the save
	// confirmation expires.
	ReturnAfterSave bool
	// Deletable enables Delete for this collection.
	Deletable bool
}

func DefaultOptions() Options {
	return Options{
		SaveNoticeTTL:   2 * time.Second,
		DeleteNoticeTTL: 2 * time.Second,
	}
}

// Creator persists a record that has no id yet and returns it as stored.
type Creator[T domain.Record[T]] func(ctx context.Context, record T) (T, error)

type Editor[T domain.Record[T]] struct {
	manager *listing.Manager[T]
	board   *notice.Board
	opts    Options

	mu    sync.Mutex
	mode  Mode
	draft T
	// create is set while the draft is a record that does not exist yet.
	create Creator[T]
	// epoch increments on every transition so a delayed return-to-list
	// cannot close a detail view opened after the save.
	epoch uint64
}

func NewEditor[T domain.Record[T]](manager *listing.Manager[T], board *notice.Board, opts Options) *Editor[T] {
	return &Editor[T]{
		manager: manager,
		board:   board,
		opts:    opts,
		mode:    ModeList,
	}
}

func (e *Editor[T]) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft returns a copy of the record being edited.
func (e *Editor[T]) Draft() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeDetail {
		var zero T
		return zero, false
	}
	return e.draft, true
}

// Open looks id up in the collection and opens it.
func (e *Editor[T]) Open(id string) (T, error) {
	record, err := e.manager.FindByID(id)
	if err != nil {
		return record, err
	}
	e.OpenRecord(record)
	return record, nil
}

// OpenRecord switches to detail mode with a draft copy of record, as when
// navigation hands over an already fetched record.
func (e *Editor[T]) OpenRecord(record T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = record
	e.create = nil
	e.mode = ModeDetail
	e.epoch++
}

// OpenNew starts editing blank as a record to be created. Save hands the
// draft to create and appends the result to the collection.
func (e *Editor[T]) OpenNew(blank T, create Creator[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = blank
	e.create = create
	e.mode = ModeDetail
	e.epoch++
}

// Creating reports whether the open draft has not been stored yet.
func (e *Editor[T]) Creating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode == ModeDetail && e.create != nil
}

// UpdateField edits the draft. Input that does not parse is rejected and the
// draft keeps its previous value.
func (e *Editor[T]) UpdateField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeDetail {
		return errNoDraft()
	}
	updated, err := e.draft.WithField(name, value)
	if err != nil {
		return err
	}
	e.draft = updated
	return nil
}

// Save persists the draft through the source and replaces the record in the
// collection. A record opened with OpenRecord that was never loaded is
// appended instead. The collection is not re-fetched.
func (e *Editor[T]) Save(ctx context.Context) (T, error) {
	e.mu.Lock()
	if e.mode != ModeDetail {
		e.mu.Unlock()
		var zero T
		return zero, errNoDraft()
	}
	draft := e.draft
	epoch := e.epoch
	create := e.create
	e.mu.Unlock()

	if create != nil {
		return e.saveNew(ctx, draft, epoch, create)
	}

	saved, err := e.manager.Source().Update(ctx, draft)
	if err != nil {
		return draft, err
	}
	if err := e.put(saved); err != nil {
		return saved, err
	}

	e.adopt(saved, epoch)
	return saved, nil
}

func (e *Editor[T]) saveNew(ctx context.Context, draft T, epoch uint64, create Creator[T]) (T, error) {
	created, err := create(ctx, draft)
	if err != nil {
		return draft, err
	}
	if err := e.manager.Append(created); err != nil {
		return created, err
	}
	e.adopt(created, epoch)
	return created, nil
}

// put replaces the record's slot in the collection, appending it when the
// record was opened without being loaded.
func (e *Editor[T]) put(record T) error {
	err := e.manager.Replace(record)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return e.manager.Append(record)
	}
	return err
}

// adopt takes the stored record as the draft and shows the confirmation.
func (e *Editor[T]) adopt(saved T, epoch uint64) {
	e.mu.Lock()
	if e.epoch == epoch {
		e.draft = saved
		e.create = nil
	}
	e.mu.Unlock()

	var onExpire func()
	if e.opts.ReturnAfterSave {
		onExpire = func() { e.backIfEpoch(epoch) }
	}
	e.board.Show(notice.LevelInfo, fmt.Sprintf("%s %s saved", e.manager.Name(), saved.GetID()), e.opts.SaveNoticeTTL, onExpire)
}

// Track records a change made outside the editor, such as an order paid
// through its own endpoint. The collection slot is replaced, or the record
// appended when it was never loaded, and an open draft of the same record
// is refreshed.
func (e *Editor[T]) Track(record T) error {
	if err := e.put(record); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == ModeDetail && e.create == nil && e.draft.GetID() == record.GetID() {
		e.draft = record
	}
	return nil
}

// Delete removes the open record from the source and the collection, then
// returns to the list.
func (e *Editor[T]) Delete(ctx context.Context) error {
	if !e.opts.Deletable {
		return apperrors.NewForbiddenError(e.manager.Name() + "s cannot be deleted")
	}

	e.mu.Lock()
	if e.mode != ModeDetail {
		e.mu.Unlock()
		return errNoDraft()
	}
	if e.create != nil {
		e.mu.Unlock()
		return apperrors.NewValidationError(e.manager.Name() + " has not been saved yet, use cancel to discard it")
	}
	id := e.draft.GetID()
	e.mu.Unlock()

	if err := e.manager.Source().Delete(ctx, id); err != nil {
		return err
	}
	if err := e.manager.Remove(id); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return err
		}
	}

	e.Back()
	e.board.Info(fmt.Sprintf("deleted %s %s", e.manager.Name(), id), e.opts.DeleteNoticeTTL)
	return nil
}

// Cancel discards the draft.
func (e *Editor[T]) Cancel() {
	e.Back()
}

// Back returns to the list without touching the collection.
func (e *Editor[T]) Back() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backLocked()
}

func (e *Editor[T]) backIfEpoch(epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch == epoch && e.mode == ModeDetail {
		e.backLocked()
	}
}

func (e *Editor[T]) backLocked() {
	var zero T
	e.draft = zero
	e.create = nil
	e.mode = ModeList
	e.epoch++
}

// Close ends the view: pending notices are cancelled and the draft dropped.
func (e *Editor[T]) Close() {
	e.board.Close()
	e.Back()
}

func errNoDraft() error {
	return apperrors.NewValidationError("no record is open", apperrors.ValidationDetail{
		Field:   "id",
		Message: "open a record before editing it",
	})
}
