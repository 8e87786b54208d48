package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/crazyplay/storefront-service/internal/models"
)

type AdminRepo struct {
	db *sql.DB
}

func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	query := `SELECT id, username, password_hash, created_at, updated_at FROM admin_accounts WHERE username = $1`

	var a models.AdminAccount
	err := r.db.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE admin_accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, hash)
	return err
}

// EnsureSeed creates the account on first start; an existing username wins.
func (r *AdminRepo) EnsureSeed(ctx context.Context, username, hash string) error {
	query := `
		INSERT INTO admin_accounts (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (username) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), username, hash)
	return err
}
