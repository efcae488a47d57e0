package employees

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

type stubEmployeeRepo struct {
	employees []Employee
	created   []Employee
	deleted   []string
	affected  int64
	stats     Stats
}

func (s *stubEmployeeRepo) List(ctx context.Context) ([]Employee, error) {
	return s.employees, nil
}

func (s *stubEmployeeRepo) FindByEmployeeID(ctx context.Context, employeeID string) (Employee, error) {
	for _, e := range s.employees {
		if e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return Employee{}, shared.ErrNotFound
}

func (s *stubEmployeeRepo) Create(ctx context.Context, e Employee) (Employee, error) {
	s.created = append(s.created, e)
	return e, nil
}

func (s *stubEmployeeRepo) Update(ctx context.Context, e Employee) (Employee, error) {
	return e, nil
}

func (s *stubEmployeeRepo) Delete(ctx context.Context, employeeID string) (int64, error) {
	s.deleted = append(s.deleted, employeeID)
	return s.affected, nil
}

func (s *stubEmployeeRepo) Stats(ctx context.Context) (Stats, error) {
	return s.stats, nil
}

type activityTrail struct {
	entries   []activity.Entry
	insertErr error
}

func (r *activityTrail) Insert(ctx context.Context, e activity.Entry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *activityTrail) ListAll(ctx context.Context) ([]activity.Entry, error) {
	return r.entries, nil
}

func (r *activityTrail) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return 0, nil
}

func manager() *authz.Principal {
	return &authz.Principal{ID: "USR-M", Email: "manager@example.com", Name: "Manager", Role: authz.RoleHRManager}
}

func officerWith(actions ...authz.Action) *authz.Principal {
	return &authz.Principal{
		ID:             "USR-O",
		Email:          "officer@example.com",
		Role:           authz.RoleHROfficer,
		AllowedActions: authz.NewActionSet(actions...),
	}
}

func validForm() FormData {
	return FormData{
		FirstName:  "Amara",
		LastName:   "Okafor",
		Department: "Engineering",
		Position:   "Engineer",
		Email:      "Amara.Okafor@Example.com",
		Status:     StatusActive,
	}
}

func TestCreateRequiresCapability(t *testing.T) {
	repo := &stubEmployeeRepo{}
	svc := NewService(repo, activity.NewRecorder(&activityTrail{}, nil, nil))

	_, err := svc.Create(context.Background(), officerWith(authz.ActionViewEmployee), validForm())
	if !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("denied create must not reach the store")
	}
}

func TestCreateNormalizesAndRecords(t *testing.T) {
	repo := &stubEmployeeRepo{}
	trail := &activityTrail{}
	rec := activity.NewRecorder(trail, nil, nil)
	svc := NewService(repo, rec)

	created, err := svc.Create(context.Background(), manager(), validForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.Wait()
	if created.Email != "amara.okafor@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.EmployeeID == "" {
		t.Fatalf("employee id must be assigned")
	}
	if len(trail.entries) != 1 || trail.entries[0].Action != "Employee Created" {
		t.Fatalf("expected creation activity entry, got %+v", trail.entries)
	}
	if trail.entries[0].ActorEmail != "manager@example.com" {
		t.Fatalf("entry must carry the actor, got %q", trail.entries[0].ActorEmail)
	}
}

func TestCreateSucceedsWhenTrailIsDown(t *testing.T) {
	repo := &stubEmployeeRepo{}
	trail := &activityTrail{insertErr: errors.New("log store offline")}
	rec := activity.NewRecorder(trail, nil, nil)
	svc := NewService(repo, rec)

	if _, err := svc.Create(context.Background(), manager(), validForm()); err != nil {
		t.Fatalf("create must not fail on audit loss: %v", err)
	}
	rec.Wait()
	if len(repo.created) != 1 {
		t.Fatalf("employee must still be stored")
	}
}

func TestDeleteUnknownEmployeeIsNoOp(t *testing.T) {
	repo := &stubEmployeeRepo{affected: 0}
	trail := &activityTrail{}
	rec := activity.NewRecorder(trail, nil, nil)
	svc := NewService(repo, rec)

	if err := svc.Delete(context.Background(), manager(), "EMP-GHOST"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rec.Wait()
	if len(trail.entries) != 0 {
		t.Fatalf("no-op delete must not log activity")
	}
}

func TestSearchFoldsCase(t *testing.T) {
	repo := &stubEmployeeRepo{employees: []Employee{
		{EmployeeID: "EMP-1", FirstName: "Amara", LastName: "Okafor", Email: "amara@example.com", Department: "Engineering"},
		{EmployeeID: "EMP-2", FirstName: "Jonas", LastName: "Lindqvist", Email: "jonas@example.com", Department: "Finance"},
	}}
	svc := NewService(repo, activity.NewRecorder(&activityTrail{}, nil, nil))

	got, err := svc.Search(context.Background(), manager(), "OKAFOR")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeID != "EMP-1" {
		t.Fatalf("unexpected match set: %+v", got)
	}

	got, err = svc.Search(context.Background(), manager(), "  ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("blank query should return everything, got %d", len(got))
	}
}

func TestStatsAcceptsReportCapability(t *testing.T) {
	repo := &stubEmployeeRepo{stats: Stats{Total: 3, Active: 2, Inactive: 1}}
	svc := NewService(repo, activity.NewRecorder(&activityTrail{}, nil, nil))

	if _, err := svc.Stats(context.Background(), officerWith(authz.ActionGenerateReports)); err != nil {
		t.Fatalf("reports capability should cover stats: %v", err)
	}
	if _, err := svc.Stats(context.Background(), officerWith(authz.ActionUploadDocuments)); !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestValidateFormRejectsBadStatus(t *testing.T) {
	form := validForm()
	form.Status = "Retired"
	_, err := NewService(&stubEmployeeRepo{}, activity.NewRecorder(&activityTrail{}, nil, nil)).
		Create(context.Background(), manager(), form)
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
