package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

type stubDocRepo struct {
	docs      map[string]Document
	createErr error
	created   []Document
	deleted   []string
}

func (s *stubDocRepo) ListByEmployee(ctx context.Context, employeeID string) ([]Document, error) {
	var out []Document
	for _, d := range s.docs {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDocRepo) FindByDocumentID(ctx context.Context, documentID string) (Document, error) {
	d, ok := s.docs[documentID]
	if !ok {
		return Document{}, shared.ErrNotFound
	}
	return d, nil
}

func (s *stubDocRepo) Create(ctx context.Context, d Document) (Document, error) {
	if s.createErr != nil {
		return Document{}, s.createErr
	}
	s.created = append(s.created, d)
	return d, nil
}

func (s *stubDocRepo) Delete(ctx context.Context, documentID string) (int64, error) {
	s.deleted = append(s.deleted, documentID)
	if _, ok := s.docs[documentID]; !ok {
		return 0, nil
	}
	delete(s.docs, documentID)
	return 1, nil
}

func (s *stubDocRepo) Count(ctx context.Context) (int, error) {
	return len(s.docs), nil
}

type memBlobStore struct {
	objects map[string]string
	putErr  error
}

func (m *memBlobStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, _ := io.ReadAll(r)
	if m.objects == nil {
		m.objects = map[string]string{}
	}
	m.objects[key] = string(data)
	return nil
}

func (m *memBlobStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, ok := m.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://blobs.example.com/" + key, nil
}

type nullTrail struct{ entries []activity.Entry }

func (r *nullTrail) Insert(ctx context.Context, e activity.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *nullTrail) ListAll(ctx context.Context) ([]activity.Entry, error) { return r.entries, nil }

func (r *nullTrail) DeleteByID(ctx context.Context, id int64) (int64, error) { return 0, nil }

func uploader() *authz.Principal {
	return &authz.Principal{
		Email:          "officer@example.com",
		Role:           authz.RoleHROfficer,
		AllowedActions: authz.NewActionSet(authz.ActionUploadDocuments, authz.ActionViewDocuments),
	}
}

func upload() Upload {
	return Upload{
		EmployeeID:  "EMP-1",
		FileName:    "contract.pdf",
		FileSize:    128,
		ContentType: "application/pdf",
		Body:        strings.NewReader("pdf bytes"),
	}
}

func TestStoreWritesBlobThenMetadata(t *testing.T) {
	repo := &stubDocRepo{docs: map[string]Document{}}
	blobs := &memBlobStore{}
	trail := &nullTrail{}
	rec := activity.NewRecorder(trail, nil, nil)
	svc := NewService(repo, blobs, rec, nil)

	doc, err := svc.Store(context.Background(), uploader(), upload())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if doc.DocumentID == "" || doc.FileKey == "" {
		t.Fatalf("ids must be assigned: %+v", doc)
	}
	if _, ok := blobs.objects[doc.FileKey]; !ok {
		t.Fatalf("blob missing under key %q", doc.FileKey)
	}
	rec.Wait()
	if len(trail.entries) != 1 || trail.entries[0].Action != "Document Uploaded" {
		t.Fatalf("expected upload activity entry, got %+v", trail.entries)
	}
}

func TestStoreCleansUpBlobOnMetadataFailure(t *testing.T) {
	repo := &stubDocRepo{createErr: errors.New("insert failed")}
	blobs := &memBlobStore{}
	svc := NewService(repo, blobs, activity.NewRecorder(&nullTrail{}, nil, nil), nil)

	if _, err := svc.Store(context.Background(), uploader(), upload()); err == nil {
		t.Fatalf("expected metadata failure to surface")
	}
	if len(blobs.objects) != 0 {
		t.Fatalf("orphaned blob left behind: %v", blobs.objects)
	}
}

func TestStoreRequiresUploadCapability(t *testing.T) {
	viewer := &authz.Principal{Role: authz.RoleHROfficer, AllowedActions: authz.NewActionSet(authz.ActionViewDocuments)}
	svc := NewService(&stubDocRepo{}, &memBlobStore{}, activity.NewRecorder(&nullTrail{}, nil, nil), nil)

	if _, err := svc.Store(context.Background(), viewer, upload()); !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteRemovesMetadataAndBlob(t *testing.T) {
	blobs := &memBlobStore{objects: map[string]string{"documents/EMP-1/key": "data"}}
	repo := &stubDocRepo{docs: map[string]Document{
		"DOC-1": {DocumentID: "DOC-1", EmployeeID: "EMP-1", FileName: "contract.pdf", FileKey: "documents/EMP-1/key"},
	}}
	trail := &nullTrail{}
	rec := activity.NewRecorder(trail, nil, nil)
	svc := NewService(repo, blobs, rec, nil)

	if err := svc.Delete(context.Background(), uploader(), "DOC-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(blobs.objects) != 0 {
		t.Fatalf("blob not removed")
	}
	rec.Wait()
	if len(trail.entries) != 1 || trail.entries[0].Action != "Document Deleted" {
		t.Fatalf("expected delete activity entry, got %+v", trail.entries)
	}
}

func TestDownloadURLPresignsExistingDocument(t *testing.T) {
	blobs := &memBlobStore{objects: map[string]string{"documents/EMP-1/key": "data"}}
	repo := &stubDocRepo{docs: map[string]Document{
		"DOC-1": {DocumentID: "DOC-1", EmployeeID: "EMP-1", FileKey: "documents/EMP-1/key"},
	}}
	svc := NewService(repo, blobs, activity.NewRecorder(&nullTrail{}, nil, nil), nil)

	url, err := svc.DownloadURL(context.Background(), uploader(), "DOC-1")
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.HasPrefix(url, "https://blobs.example.com/") {
		t.Fatalf("unexpected url %q", url)
	}

	if _, err := svc.DownloadURL(context.Background(), uploader(), "DOC-GHOST"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
