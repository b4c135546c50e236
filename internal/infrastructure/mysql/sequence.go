package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"

	"travelbook/internal/domain"
	apperrors "travelbook/internal/errors"
)

// Sequences hands out record ids from the IdSequences table.
type Sequences struct {
	db *sql.DB
}

func NewSequences(db *sql.DB) *Sequences {
	return &Sequences{db: db}
}

// Next reserves and returns the next id for kind. LAST_INSERT_ID(expr) makes
// the incremented value visible to the same connection, so the update and the
// read run inside one transaction.
func (s *Sequences) Next(ctx context.Context, kind domain.Kind) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning sequence transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE IdSequences SET nextValue = LAST_INSERT_ID(nextValue + 1) WHERE kind = ?`, string(kind))
	if err != nil {
		return "", fmt.Errorf("advancing %s sequence: %w", kind, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("no id sequence for %s", kind))
	}

	n, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading %s sequence: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing sequence: %w", err)
	}
	return domain.FormatID(kind, int(n)), nil
}

// IsDuplicateKey reports a MySQL duplicate-entry error (1062).
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
