package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnavailable indicates the activity store cannot serve reads, typically
// because the schema has not been deployed. Callers must distinguish this
// from an empty log.
var ErrUnavailable = errors.New("activity: log store unavailable")

// Repository defines persistence for activity entries.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	ListAll(ctx context.Context) ([]Entry, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends one entry.
func (r *PGRepository) Insert(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_logs (log_id, actor_email, actor_name, action, resource_type, resource_id, description, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		e.LogID, e.ActorEmail, e.ActorName, e.Action, string(e.Resource), e.ResourceID, e.Description, e.Details)
	return err
}

// ListAll returns every entry, newest first.
func (r *PGRepository) ListAll(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, log_id, actor_email, actor_name, action, resource_type, resource_id, description, details, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, r.mapReadError(err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var resource string
		if err := rows.Scan(&e.ID, &e.LogID, &e.ActorEmail, &e.ActorName, &e.Action, &resource, &e.ResourceID, &e.Description, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Resource = ResourceType(resource)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByID removes a single entry and returns the affected row count.
func (r *PGRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// mapReadError surfaces a missing schema as ErrUnavailable so the caller can
// degrade its UI instead of showing an empty log.
func (r *PGRepository) mapReadError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
		return fmt.Errorf("%w: %s", ErrUnavailable, pgErr.Message)
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
