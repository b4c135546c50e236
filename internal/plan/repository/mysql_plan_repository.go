package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/infrastructure/mysql"
)

const planColumns = `id, title, departure, destination, price, days, departureDate, returnDate,
	accommodation, transportation, includedServices, status, orderCount`

type MySQLPlanRepository struct {
	db  *sql.DB
	seq *mysql.Sequences
}

func NewMySQLPlanRepository(db *sql.DB) *MySQLPlanRepository {
	return &MySQLPlanRepository{db: db, seq: mysql.NewSequences(db)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (domain.Plan, error) {
	var p domain.Plan
	err := row.Scan(
		&p.ID, &p.Title, &p.Departure, &p.Destination, &p.Price, &p.Days,
		&p.DepartureDate, &p.ReturnDate,
		&p.Accommodation, &p.Transportation, &p.IncludedServices,
		&p.Status, &p.OrderCount,
	)
	return p, err
}

func (r *MySQLPlanRepository) List(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
	var c mysql.Conditions
	if f.Status != domain.StatusAll {
		c.Equal("status", f.Status)
	}
	c.Contains(f.Departure, "departure")
	c.Contains(f.Destination, "destination")
	c.Contains(f.Search, "id", "title")
	where, args := c.Where()

	rows, err := r.db.QueryContext(ctx, "SELECT "+planColumns+" FROM Plans"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}
	return plans, nil
}

func (r *MySQLPlanRepository) FindByID(ctx context.Context, id string) (domain.Plan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, "SELECT "+planColumns+" FROM Plans WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, apperrors.NewNotFoundError(fmt.Sprintf("plan with id %s not found", id))
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("querying plan by id: %w", err)
	}
	return p, nil
}

func (r *MySQLPlanRepository) Create(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	id, err := r.seq.Next(ctx, domain.KindPlan)
	if err != nil {
		return domain.Plan{}, err
	}
	p.ID = id

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO Plans (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Departure, p.Destination, p.Price, p.Days, p.DepartureDate, p.ReturnDate,
		p.Accommodation, p.Transportation, p.IncludedServices, p.Status, p.OrderCount,
	)
	if mysql.IsDuplicateKey(err) {
		return domain.Plan{}, apperrors.NewConflictError(fmt.Sprintf("plan with id %s already exists", p.ID))
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("inserting plan: %w", err)
	}
	return p, nil
}

func (r *MySQLPlanRepository) Update(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE Plans SET title = ?, departure = ?, destination = ?, price = ?, days = ?,
		       departureDate = ?, returnDate = ?, accommodation = ?, transportation = ?,
		       includedServices = ?, status = ?, orderCount = ?
		WHERE id = ?`,
		p.Title, p.Departure, p.Destination, p.Price, p.Days, p.DepartureDate, p.ReturnDate,
		p.Accommodation, p.Transportation, p.IncludedServices, p.Status, p.OrderCount, p.ID,
	)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("updating plan: %w", err)
	}
	if err := r.requireRow(ctx, result, p.ID); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

func (r *MySQLPlanRepository) ToggleStatus(ctx context.Context, id string) (domain.Plan, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE Plans SET status = IF(status = ?, ?, ?) WHERE id = ?`,
		domain.PlanStatusActive, domain.PlanStatusInactive, domain.PlanStatusActive, id,
	)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("toggling plan status: %w", err)
	}
	if err := r.requireRow(ctx, result, id); err != nil {
		return domain.Plan{}, err
	}
	return r.FindByID(ctx, id)
}

// requireRow turns an update that matched nothing into NotFound. MySQL
// reports zero affected rows for a no-op update too, so existence is
// checked before failing.
func (r *MySQLPlanRepository) requireRow(ctx context.Context, result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}
	_, err = r.FindByID(ctx, id)
	return err
}
