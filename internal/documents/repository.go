package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// RepositoryPort defines data access for document metadata.
type RepositoryPort interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]Document, error)
	FindByDocumentID(ctx context.Context, documentID string) (Document, error)
	Create(ctx context.Context, d Document) (Document, error)
	Delete(ctx context.Context, documentID string) (int64, error)
	Count(ctx context.Context) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, document_id, employee_id, file_name, file_key, file_size, content_type, description, uploaded_by, uploaded_at`

// ListByEmployee returns an employee's documents, newest upload first.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+` FROM employee_documents WHERE employee_id = $1 ORDER BY uploaded_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.DocumentID, &d.EmployeeID, &d.FileName, &d.FileKey, &d.FileSize, &d.ContentType, &d.Description, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByDocumentID fetches one metadata row.
func (r *Repository) FindByDocumentID(ctx context.Context, documentID string) (Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM employee_documents WHERE document_id = $1`, documentID)
	var d Document
	if err := row.Scan(&d.ID, &d.DocumentID, &d.EmployeeID, &d.FileName, &d.FileKey, &d.FileSize, &d.ContentType, &d.Description, &d.UploadedBy, &d.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, shared.ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

// Create inserts a metadata row.
func (r *Repository) Create(ctx context.Context, d Document) (Document, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employee_documents (document_id, employee_id, file_name, file_key, file_size, content_type, description, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+documentColumns,
		d.DocumentID, d.EmployeeID, d.FileName, d.FileKey, d.FileSize, d.ContentType, d.Description, d.UploadedBy)
	var created Document
	if err := row.Scan(&created.ID, &created.DocumentID, &created.EmployeeID, &created.FileName, &created.FileKey, &created.FileSize, &created.ContentType, &created.Description, &created.UploadedBy, &created.UploadedAt); err != nil {
		return Document{}, err
	}
	return created, nil
}

// Delete removes a metadata row, returning the affected count.
func (r *Repository) Delete(ctx context.Context, documentID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employee_documents WHERE document_id = $1`, documentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of stored documents.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee_documents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ RepositoryPort = (*Repository)(nil)
