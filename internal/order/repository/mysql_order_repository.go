package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/infrastructure/mysql"
)

const orderColumns = `id, planId, account, passengerName, passengerPhone, numOfPassengers,
	totalAmount, status, orderDate`

type MySQLOrderRepository struct {
	db        *sql.DB
	seq       *mysql.Sequences
	txTimeout time.Duration
}

func NewMySQLOrderRepository(db *sql.DB, txTimeout time.Duration) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, seq: mysql.NewSequences(db), txTimeout: txTimeout}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.PlanID, &o.Account, &o.PassengerName, &o.PassengerPhone,
		&o.NumOfPassengers, &o.TotalAmount, &o.Status, &o.OrderDate,
	)
	return o, err
}

func (r *MySQLOrderRepository) List(ctx context.Context, f domain.Filter) ([]domain.Order, error) {
	var c mysql.Conditions
	if f.Status != domain.StatusAll {
		c.Equal("status", f.Status)
	}
	c.Equal("account", f.Account)
	c.Equal("planId", f.PlanID)
	c.Contains(f.Search, "id", "planId", "passengerName")
	where, args := c.Where()

	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM Orders"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM Orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("querying order by id: %w", err)
	}
	return o, nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE Orders SET planId = ?, passengerName = ?, passengerPhone = ?, numOfPassengers = ?,
		       totalAmount = ?, status = ?, orderDate = ?
		WHERE id = ?`,
		o.PlanID, o.PassengerName, o.PassengerPhone, o.NumOfPassengers,
		o.TotalAmount, o.Status, o.OrderDate, o.ID,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("updating order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.FindByID(ctx, o.ID); err != nil {
			return domain.Order{}, err
		}
	}
	return o, nil
}

// CompareAndSetStatus moves the order from status from to status to. A
// concurrent change of the status yields a ConflictError.
func (r *MySQLOrderRepository) CompareAndSetStatus(ctx context.Context, id, from, to string) (domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE Orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return domain.Order{}, fmt.Errorf("updating order status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("getting rows affected: %w", err)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if rows == 0 && current.Status != to {
		return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order %s changed status to %s concurrently", id, current.Status))
	}
	return current, nil
}

// Place inserts draft against its plan inside one transaction. The plan row
// is locked so orderCount stays consistent with concurrent placements.
func (r *MySQLOrderRepository) Place(ctx context.Context, draft domain.Order, date time.Time) (domain.Order, error) {
	id, err := r.seq.Next(ctx, domain.KindOrder)
	if err != nil {
		return domain.Order{}, err
	}
	draft.ID = id

	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return domain.Order{}, fmt.Errorf("beginning transaction: %w", err)
	}
	// MySQL ignores the rollback once committed.
	defer tx.Rollback()

	var plan domain.Plan
	err = tx.QueryRowContext(txCtx,
		`SELECT id, price, status, orderCount FROM Plans WHERE id = ? FOR UPDATE`, draft.PlanID,
	).Scan(&plan.ID, &plan.Price, &plan.Status, &plan.OrderCount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperrors.NewNotFoundError(fmt.Sprintf("plan with id %s not found", draft.PlanID))
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("locking plan: %w", err)
	}

	order, plan, err := draft.PlaceOn(plan, date)
	if err != nil {
		return domain.Order{}, err
	}

	_, err = tx.ExecContext(txCtx, `
		INSERT INTO Orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.PlanID, order.Account, order.PassengerName, order.PassengerPhone,
		order.NumOfPassengers, order.TotalAmount, order.Status, order.OrderDate,
	)
	if mysql.IsDuplicateKey(err) {
		return domain.Order{}, apperrors.NewConflictError(fmt.Sprintf("order with id %s already exists", order.ID))
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("inserting order: %w", err)
	}

	if _, err := tx.ExecContext(txCtx, `UPDATE Plans SET orderCount = ? WHERE id = ?`, plan.OrderCount, plan.ID); err != nil {
		return domain.Order{}, fmt.Errorf("updating plan order count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("committing order: %w", err)
	}
	return order, nil
}
