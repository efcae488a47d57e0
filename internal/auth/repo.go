package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches an account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, groups, is_active, require_password_reset, created_at, updated_at
		FROM accounts WHERE email = $1`, email)
	var a Account
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Groups, &a.IsActive, &a.RequirePasswordReset, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdatePassword replaces the stored hash and clears any forced-reset flag.
func (r *PGRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $2, require_password_reset = FALSE, updated_at = NOW()
		WHERE email = $1`, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
