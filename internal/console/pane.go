package console

import (
	"context"
	"fmt"
	"io"

	"travelbook/internal/detail"
	"travelbook/internal/domain"
	"travelbook/internal/listing"
	"travelbook/internal/notice"
)

// view is the type-erased face of a pane so the command loop can drive any
// record kind.
type view interface {
	title() string
	load(ctx context.Context, status string) (int, error)
	list(w io.Writer)
	find(w io.Writer, id string) error
	filter(w io.Writer, status string)
	sort(w io.Writer, criterion, direction string) error
	open(w io.Writer, id string) error
	set(w io.Writer, field, value string) error
	save(ctx context.Context, w io.Writer) error
	cancel()
	back()
	remove(ctx context.Context) error
	mode() detail.Mode
	creating() bool
	notices() *notice.Board
	close()
}

type layout[T domain.Record[T]] struct {
	columns []string
	row     func(T) []string
	fields  func(T) []field
}

type field struct {
	name  string
	value string
}

type pane[T domain.Record[T]] struct {
	manager *listing.Manager[T]
	editor  *detail.Editor[T]
	board   *notice.Board
	layout  layout[T]
}

func newPane[T domain.Record[T]](name string, source listing.Source[T], opts detail.Options, l layout[T]) *pane[T] {
	manager := listing.NewManager(name, source)
	board := notice.NewBoard()
	return &pane[T]{
		manager: manager,
		editor:  detail.NewEditor(manager, board, opts),
		board:   board,
		layout:  l,
	}
}

func (p *pane[T]) title() string { return p.manager.Name() + "s" }

func (p *pane[T]) load(ctx context.Context, status string) (int, error) {
	if err := p.manager.Load(ctx, domain.Filter{Status: status}); err != nil {
		return 0, err
	}
	return p.manager.Len(), nil
}

func (p *pane[T]) list(w io.Writer) {
	if p.manager.Empty() {
		if p.manager.Loaded() {
			fmt.Fprintf(w, "no %s\n", p.title())
		} else {
			fmt.Fprintf(w, "no %s loaded yet, use load\n", p.title())
		}
		return
	}
	p.table(w, p.manager.Items())
}

func (p *pane[T]) find(w io.Writer, id string) error {
	record, err := p.manager.FindByID(id)
	if err != nil {
		return err
	}
	p.table(w, []T{record})
	return nil
}

func (p *pane[T]) filter(w io.Writer, status string) {
	p.table(w, p.manager.FilterByStatus(status))
}

func (p *pane[T]) sort(w io.Writer, criterion, direction string) error {
	dir, err := listing.ParseDirection(direction)
	if err != nil {
		return err
	}
	sorted, err := p.manager.SortBy(domain.Criterion(criterion), dir)
	if err != nil {
		return err
	}
	p.table(w, sorted)
	return nil
}

func (p *pane[T]) open(w io.Writer, id string) error {
	record, err := p.editor.Open(id)
	if err != nil {
		return err
	}
	writeFields(w, p.layout.fields(record))
	return nil
}

func (p *pane[T]) set(w io.Writer, name, value string) error {
	if err := p.editor.UpdateField(name, value); err != nil {
		return err
	}
	draft, _ := p.editor.Draft()
	writeFields(w, p.layout.fields(draft))
	return nil
}

func (p *pane[T]) save(ctx context.Context, w io.Writer) error {
	saved, err := p.editor.Save(ctx)
	if err != nil {
		return err
	}
	writeFields(w, p.layout.fields(saved))
	return nil
}

// cancel discards the draft together with any confirmation still showing
// for it.
func (p *pane[T]) cancel() {
	p.editor.Cancel()
	p.board.Clear()
}

func (p *pane[T]) back()                            { p.editor.Back() }
func (p *pane[T]) remove(ctx context.Context) error { return p.editor.Delete(ctx) }
func (p *pane[T]) mode() detail.Mode                { return p.editor.Mode() }
func (p *pane[T]) creating() bool                   { return p.editor.Creating() }
func (p *pane[T]) notices() *notice.Board           { return p.board }
func (p *pane[T]) close()                           { p.editor.Close() }

// show prints one record in detail.
func (p *pane[T]) show(w io.Writer, record T) {
	writeFields(w, p.layout.fields(record))
}

func (p *pane[T]) table(w io.Writer, items []T) {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = p.layout.row(item)
	}
	writeTable(w, p.layout.columns, rows)
}
