package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-hr/internal/platform/db"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// ErrDuplicateEmail indicates another employee already uses the email.
var ErrDuplicateEmail = errors.New("employees: email already in use")

// RepositoryPort defines data access methods for employees.
type RepositoryPort interface {
	List(ctx context.Context) ([]Employee, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (Employee, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, employeeID string) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, employee_id, first_name, last_name, department, position, email, phone, status, created_by, created_at, updated_at`

// List returns all employees ordered by last name.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByEmployeeID fetches a record by its business identifier.
func (r *Repository) FindByEmployeeID(ctx context.Context, employeeID string) (Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID)
	return r.one(row)
}

// Create inserts a new employee record.
func (r *Repository) Create(ctx context.Context, e Employee) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (employee_id, first_name, last_name, department, position, email, phone, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+employeeColumns,
		e.EmployeeID, e.FirstName, e.LastName, e.Department, e.Position, e.Email, e.Phone, string(e.Status), e.CreatedBy)
	created, err := r.one(row)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return created, nil
}

// Update replaces the mutable profile fields.
func (r *Repository) Update(ctx context.Context, e Employee) (Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, department = $4, position = $5, email = $6, phone = $7, status = $8, updated_at = NOW()
		WHERE employee_id = $1
		RETURNING `+employeeColumns,
		e.EmployeeID, e.FirstName, e.LastName, e.Department, e.Position, e.Email, e.Phone, string(e.Status))
	updated, err := r.one(row)
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return updated, nil
}

// Delete removes the employee plus its dependent leave and document metadata
// rows in one transaction. Blob objects are left to bucket lifecycle rules.
func (r *Repository) Delete(ctx context.Context, employeeID string) (int64, error) {
	var affected int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM leave_records WHERE employee_id = $1`, employeeID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM employee_documents WHERE employee_id = $1`, employeeID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Stats counts employees per status.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Active'),
		       COUNT(*) FILTER (WHERE status = 'Inactive')
		FROM employees`)
	var s Stats
	if err := row.Scan(&s.Total, &s.Active, &s.Inactive); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (r *Repository) one(row pgx.Row) (Employee, error) {
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var status string
	if err := row.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Department, &e.Position, &e.Email, &e.Phone, &status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Employee{}, err
	}
	e.Status = Status(status)
	return e, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
