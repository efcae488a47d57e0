package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// RepositoryPort defines data access for leave records.
type RepositoryPort interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	FindByLeaveID(ctx context.Context, leaveID string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, leaveID string) (int64, error)
	ActiveOn(ctx context.Context, day time.Time) ([]ActiveRecord, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leaveColumns = `id, leave_id, employee_id, leave_type, start_date, end_date, reason, status, approved_by, created_by, created_at, updated_at`

// ListByEmployee returns an employee's leave records, newest start first.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID string) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leaveColumns+` FROM leave_records WHERE employee_id = $1 ORDER BY start_date DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// FindByLeaveID fetches one record.
func (r *Repository) FindByLeaveID(ctx context.Context, leaveID string) (Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_records WHERE leave_id = $1`, leaveID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// Create inserts a new leave record.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leave_records (leave_id, employee_id, leave_type, start_date, end_date, reason, status, approved_by, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+leaveColumns,
		rec.LeaveID, rec.EmployeeID, rec.LeaveType, rec.StartDate, rec.EndDate, rec.Reason, string(rec.Status), rec.ApprovedBy, rec.CreatedBy)
	return scanOrNotFound(row)
}

// Update replaces the mutable fields of a record.
func (r *Repository) Update(ctx context.Context, rec Record) (Record, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leave_records
		SET leave_type = $2, start_date = $3, end_date = $4, reason = $5, status = $6, approved_by = $7, updated_at = NOW()
		WHERE leave_id = $1
		RETURNING `+leaveColumns,
		rec.LeaveID, rec.LeaveType, rec.StartDate, rec.EndDate, rec.Reason, string(rec.Status), rec.ApprovedBy)
	return scanOrNotFound(row)
}

// Delete removes a record, returning the affected count.
func (r *Repository) Delete(ctx context.Context, leaveID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leave_records WHERE leave_id = $1`, leaveID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ActiveOn returns approved leave covering the given day, enriched with the
// employee's name and department, soonest return first.
func (r *Repository) ActiveOn(ctx context.Context, day time.Time) ([]ActiveRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.leave_id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.reason, l.status, l.approved_by, l.created_by, l.created_at, l.updated_at,
		       COALESCE(e.first_name || ' ' || e.last_name, 'Unknown'),
		       COALESCE(e.department, 'Unknown')
		FROM leave_records l
		LEFT JOIN employees e ON e.employee_id = l.employee_id
		WHERE l.status = 'Approved' AND l.start_date <= $1 AND l.end_date >= $1
		ORDER BY l.end_date, l.leave_id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ActiveRecord
	for rows.Next() {
		var a ActiveRecord
		var status string
		if err := rows.Scan(&a.ID, &a.LeaveID, &a.EmployeeID, &a.LeaveType, &a.StartDate, &a.EndDate, &a.Reason, &status, &a.ApprovedBy, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.EmployeeName, &a.Department); err != nil {
			return nil, err
		}
		a.Status = Status(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collect(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrNotFound(row pgx.Row) (Record, error) {
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var status string
	if err := row.Scan(&rec.ID, &rec.LeaveID, &rec.EmployeeID, &rec.LeaveType, &rec.StartDate, &rec.EndDate, &rec.Reason, &status, &rec.ApprovedBy, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	return rec, nil
}

var _ RepositoryPort = (*Repository)(nil)
