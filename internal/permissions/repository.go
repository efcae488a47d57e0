package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// ErrDuplicateOfficer indicates a Permission record already exists for the
// email or user ID.
var ErrDuplicateOfficer = errors.New("permissions: officer already provisioned")

// RepositoryPort defines data access for Permission records.
type RepositoryPort interface {
	List(ctx context.Context) ([]Officer, error)
	FindByEmail(ctx context.Context, email string) (Officer, error)
	FindByUserID(ctx context.Context, userID string) (Officer, error)
	Create(ctx context.Context, o Officer) (Officer, error)
	ReplaceActions(ctx context.Context, userID string, actions []string) (Officer, error)
	Delete(ctx context.Context, userID string) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const officerColumns = `id, role_record_id, user_id, email, name, allowed_actions, assigned_by, created_at, updated_at`

// List returns all Permission records ordered by officer name.
func (r *Repository) List(ctx context.Context) ([]Officer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+officerColumns+` FROM officer_permissions ORDER BY name, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var officers []Officer
	for rows.Next() {
		officer, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return officers, nil
}

// FindByEmail fetches the Permission record for an officer email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (Officer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+officerColumns+` FROM officer_permissions WHERE email = $1`, email)
	return r.one(row)
}

// FindByUserID fetches the Permission record for a user ID.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (Officer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+officerColumns+` FROM officer_permissions WHERE user_id = $1`, userID)
	return r.one(row)
}

// Create inserts a new Permission record.
func (r *Repository) Create(ctx context.Context, o Officer) (Officer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO officer_permissions (role_record_id, user_id, email, name, allowed_actions, assigned_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+officerColumns,
		o.RoleRecordID, o.UserID, o.Email, o.Name, actionsToStrings(o.AllowedActions), o.AssignedBy)
	created, err := r.one(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return Officer{}, ErrDuplicateOfficer
		}
		return Officer{}, err
	}
	return created, nil
}

// ReplaceActions replaces the allow-list wholesale. Last write wins when two
// administrators race; no concurrency token is used.
func (r *Repository) ReplaceActions(ctx context.Context, userID string, actions []string) (Officer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE officer_permissions
		SET allowed_actions = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+officerColumns, userID, actions)
	return r.one(row)
}

// Delete removes the Permission record, returning the affected row count.
func (r *Repository) Delete(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM officer_permissions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) one(row pgx.Row) (Officer, error) {
	officer, err := scanOfficer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Officer{}, shared.ErrNotFound
		}
		return Officer{}, err
	}
	return officer, nil
}

func scanOfficer(row pgx.Row) (Officer, error) {
	var o Officer
	var raw []string
	if err := row.Scan(&o.ID, &o.RoleRecordID, &o.UserID, &o.Email, &o.Name, &raw, &o.AssignedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Officer{}, err
	}
	o.AllowedActions = stringsToActions(raw)
	return o, nil
}

// stringsToActions keeps only tokens from the closed action set; unknown
// tokens in a stored list are skipped rather than failing the whole read.
func stringsToActions(raw []string) []authz.Action {
	actions := make([]authz.Action, 0, len(raw))
	seen := make(map[authz.Action]struct{}, len(raw))
	for _, token := range raw {
		action, err := authz.ParseAction(token)
		if err != nil {
			continue
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		actions = append(actions, action)
	}
	return actions
}

func actionsToStrings(actions []authz.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

var _ RepositoryPort = (*Repository)(nil)
