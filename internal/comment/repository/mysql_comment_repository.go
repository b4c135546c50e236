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

const commentColumns = `id, planId, orderId, account, content, rating, date`

type MySQLCommentRepository struct {
	db  *sql.DB
	seq *mysql.Sequences
}

func NewMySQLCommentRepository(db *sql.DB) *MySQLCommentRepository {
	return &MySQLCommentRepository{db: db, seq: mysql.NewSequences(db)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PlanID, &c.OrderID, &c.Account, &c.Content, &c.Rating, &c.Date)
	return c, err
}

func (r *MySQLCommentRepository) List(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
	var c mysql.Conditions
	if f.Status != "" && f.Status != domain.StatusAll {
		// Comments carry no status.
		c.Never()
	}
	c.Equal("planId", f.PlanID)
	c.Equal("account", f.Account)
	c.Contains(f.Search, "id", "planId", "content")
	where, args := c.Where()

	rows, err := r.db.QueryContext(ctx, "SELECT "+commentColumns+" FROM Comments"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}
	return comments, nil
}

func (r *MySQLCommentRepository) FindByID(ctx context.Context, id string) (domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM Comments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Comment{}, apperrors.NewNotFoundError(fmt.Sprintf("comment with id %s not found", id))
	}
	if err != nil {
		return domain.Comment{}, fmt.Errorf("querying comment by id: %w", err)
	}
	return c, nil
}

func (r *MySQLCommentRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Comments WHERE orderId = ?`, orderID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting comments for order: %w", err)
	}
	return n > 0, nil
}

func (r *MySQLCommentRepository) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	id, err := r.seq.Next(ctx, domain.KindComment)
	if err != nil {
		return domain.Comment{}, err
	}
	c.ID = id

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO Comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.PlanID, c.OrderID, c.Account, c.Content, c.Rating, c.Date,
	)
	if mysql.IsDuplicateKey(err) {
		return domain.Comment{}, apperrors.NewConflictError(fmt.Sprintf("comment with id %s already exists", c.ID))
	}
	if err != nil {
		return domain.Comment{}, fmt.Errorf("inserting comment: %w", err)
	}
	return c, nil
}

func (r *MySQLCommentRepository) Update(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE Comments SET planId = ?, content = ?, rating = ?, date = ? WHERE id = ?`,
		c.PlanID, c.Content, c.Rating, c.Date, c.ID,
	)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("updating comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Comment{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.FindByID(ctx, c.ID); err != nil {
			return domain.Comment{}, err
		}
	}
	return c, nil
}

func (r *MySQLCommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("comment with id %s not found", id))
	}
	return nil
}
