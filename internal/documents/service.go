package documents

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

const downloadURLTTL = 15 * time.Minute

// Upload carries one incoming file.
type Upload struct {
	EmployeeID  string
	FileName    string
	FileSize    int64
	ContentType string
	Description string
	Body        io.Reader
}

// Service coordinates blob uploads with metadata rows.
type Service struct {
	repo     RepositoryPort
	blobs    BlobStore
	recorder *activity.Recorder
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, blobs BlobStore, recorder *activity.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, blobs: blobs, recorder: recorder, logger: logger}
}

// ListByEmployee returns the documents attached to an employee.
func (s *Service) ListByEmployee(ctx context.Context, actor *authz.Principal, employeeID string) ([]Document, error) {
	if !authz.Can(actor, authz.ActionViewDocuments) {
		return nil, httpx.ErrForbidden
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}

// Store uploads the blob first, then records metadata; a metadata failure
// removes the just-written blob so the two stores cannot drift.
func (s *Service) Store(ctx context.Context, actor *authz.Principal, up Upload) (Document, error) {
	if !authz.Can(actor, authz.ActionUploadDocuments) {
		return Document{}, httpx.ErrForbidden
	}
	if up.EmployeeID == "" || strings.TrimSpace(up.FileName) == "" || up.Body == nil {
		return Document{}, fmt.Errorf("%w: employee id, file name and body required", httpx.ErrValidation)
	}

	key := BlobKey(up.EmployeeID, up.FileName)
	if err := s.blobs.Put(ctx, key, up.ContentType, up.Body); err != nil {
		return Document{}, err
	}

	doc, err := s.repo.Create(ctx, Document{
		DocumentID:  NewDocumentID(),
		EmployeeID:  up.EmployeeID,
		FileName:    up.FileName,
		FileKey:     key,
		FileSize:    up.FileSize,
		ContentType: up.ContentType,
		Description: strings.TrimSpace(up.Description),
		UploadedBy:  actor.Email,
	})
	if err != nil {
		if cleanupErr := s.blobs.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn("orphaned blob after metadata failure",
				slog.String("key", key), slog.Any("error", cleanupErr))
		}
		return Document{}, err
	}

	s.recorder.Record(ctx, "Document Uploaded", activity.ResourceDocument, doc.DocumentID,
		fmt.Sprintf("Uploaded %s for employee %s", doc.FileName, doc.EmployeeID),
		actor.Email, actor.Name, doc.FileKey)
	return doc, nil
}

// Delete removes the metadata row, then the blob best-effort: a dangling
// blob is preferable to a metadata row pointing at nothing.
func (s *Service) Delete(ctx context.Context, actor *authz.Principal, documentID string) error {
	if !authz.Can(actor, authz.ActionUploadDocuments) {
		return httpx.ErrForbidden
	}
	doc, err := s.repo.FindByDocumentID(ctx, documentID)
	if err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, documentID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, doc.FileKey); err != nil {
		s.logger.Warn("blob delete failed", slog.String("key", doc.FileKey), slog.Any("error", err))
	}

	s.recorder.Record(ctx, "Document Deleted", activity.ResourceDocument, documentID,
		fmt.Sprintf("Deleted %s for employee %s", doc.FileName, doc.EmployeeID),
		actor.Email, actor.Name, "")
	return nil
}

// DownloadURL returns a presigned, time-limited URL for the document.
func (s *Service) DownloadURL(ctx context.Context, actor *authz.Principal, documentID string) (string, error) {
	if !authz.Can(actor, authz.ActionViewDocuments) {
		return "", httpx.ErrForbidden
	}
	doc, err := s.repo.FindByDocumentID(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.blobs.PresignGet(ctx, doc.FileKey, downloadURLTTL)
}

// Count returns the total number of documents, for the dashboard.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
