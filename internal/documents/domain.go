// Package documents manages employee document metadata and blob storage.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is the metadata row for one uploaded file. Bytes live in the
// blob store under FileKey.
type Document struct {
	ID          int64     `json:"-"`
	DocumentID  string    `json:"document_id"`
	EmployeeID  string    `json:"employee_id"`
	FileName    string    `json:"file_name"`
	FileKey     string    `json:"file_key"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	Description string    `json:"description,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewDocumentID mints a business identifier.
func NewDocumentID() string {
	return "DOC-" + strings.ToUpper(uuid.NewString()[:8])
}

// BlobKey builds the storage key for an upload.
func BlobKey(employeeID, fileName string) string {
	return fmt.Sprintf("documents/%s/%d_%s", employeeID, time.Now().UnixMilli(), fileName)
}
