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

type MySQLAccountRepository struct {
	db *sql.DB
}

func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

func (r *MySQLAccountRepository) FindByName(ctx context.Context, name string) (domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT name, passwordHash, role, createdAt FROM Accounts WHERE name = ?`, name,
	).Scan(&a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", name))
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("querying account: %w", err)
	}
	return a, nil
}

func (r *MySQLAccountRepository) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO Accounts (name, passwordHash, role, createdAt) VALUES (?, ?, ?, ?)`,
		a.Name, a.PasswordHash, string(a.Role), a.CreatedAt)
	if mysql.IsDuplicateKey(err) {
		return apperrors.NewConflictError(fmt.Sprintf("account %s already exists", a.Name))
	}
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}
