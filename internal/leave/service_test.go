package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

type stubLeaveRepo struct {
	records  []Record
	active   []ActiveRecord
	created  []Record
	deleted  []string
	affected int64
}

func (s *stubLeaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]Record, error) {
	var out []Record
	for _, r := range s.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubLeaveRepo) FindByLeaveID(ctx context.Context, leaveID string) (Record, error) {
	for _, r := range s.records {
		if r.LeaveID == leaveID {
			return r, nil
		}
	}
	return Record{}, errors.New("not found")
}

func (s *stubLeaveRepo) Create(ctx context.Context, rec Record) (Record, error) {
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *stubLeaveRepo) Update(ctx context.Context, rec Record) (Record, error) {
	return rec, nil
}

func (s *stubLeaveRepo) Delete(ctx context.Context, leaveID string) (int64, error) {
	s.deleted = append(s.deleted, leaveID)
	return s.affected, nil
}

func (s *stubLeaveRepo) ActiveOn(ctx context.Context, day time.Time) ([]ActiveRecord, error) {
	return s.active, nil
}

type trail struct {
	entries []activity.Entry
}

func (r *trail) Insert(ctx context.Context, e activity.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *trail) ListAll(ctx context.Context) ([]activity.Entry, error) { return r.entries, nil }

func (r *trail) DeleteByID(ctx context.Context, id int64) (int64, error) { return 0, nil }

func editor() *authz.Principal {
	return &authz.Principal{
		Email:          "officer@example.com",
		Name:           "Officer",
		Role:           authz.RoleHROfficer,
		AllowedActions: authz.NewActionSet(authz.ActionViewEmployee, authz.ActionEditEmployee),
	}
}

func validLeave() FormData {
	return FormData{
		LeaveType: "Annual",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Status:    StatusApproved,
	}
}

func TestCreateLeaveRecordsActivity(t *testing.T) {
	repo := &stubLeaveRepo{}
	log := &trail{}
	rec := activity.NewRecorder(log, nil, nil)
	svc := NewService(repo, rec)

	created, err := svc.Create(context.Background(), editor(), "EMP-1", validLeave())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec.Wait()
	if created.LeaveID == "" || created.EmployeeID != "EMP-1" {
		t.Fatalf("unexpected record %+v", created)
	}
	if created.CreatedBy != "officer@example.com" {
		t.Fatalf("creator not stamped: %q", created.CreatedBy)
	}
	if len(log.entries) != 1 || log.entries[0].Action != "Leave Recorded" {
		t.Fatalf("expected activity entry, got %+v", log.entries)
	}
}

func TestCreateLeaveRequiresEditCapability(t *testing.T) {
	viewer := &authz.Principal{Role: authz.RoleHROfficer, AllowedActions: authz.NewActionSet(authz.ActionViewEmployee)}
	svc := NewService(&stubLeaveRepo{}, activity.NewRecorder(&trail{}, nil, nil))

	if _, err := svc.Create(context.Background(), viewer, "EMP-1", validLeave()); !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateLeaveValidatesWindow(t *testing.T) {
	svc := NewService(&stubLeaveRepo{}, activity.NewRecorder(&trail{}, nil, nil))
	form := validLeave()
	form.EndDate = form.StartDate.AddDate(0, 0, -1)

	if _, err := svc.Create(context.Background(), editor(), "EMP-1", form); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteLeaveIsIdempotent(t *testing.T) {
	repo := &stubLeaveRepo{affected: 0}
	log := &trail{}
	rec := activity.NewRecorder(log, nil, nil)
	svc := NewService(repo, rec)

	if err := svc.Delete(context.Background(), editor(), "LV-GHOST"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rec.Wait()
	if len(log.entries) != 0 {
		t.Fatalf("no-op delete must not log activity")
	}
}

func TestActiveTodayAcceptsViewOrReports(t *testing.T) {
	repo := &stubLeaveRepo{active: []ActiveRecord{{Record: Record{LeaveID: "LV-1"}, EmployeeName: "Amara Okafor"}}}
	svc := NewService(repo, activity.NewRecorder(&trail{}, nil, nil))

	reporter := &authz.Principal{Role: authz.RoleHROfficer, AllowedActions: authz.NewActionSet(authz.ActionGenerateReports)}
	got, err := svc.ActiveToday(context.Background(), reporter)
	if err != nil {
		t.Fatalf("active today: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeName != "Amara Okafor" {
		t.Fatalf("unexpected result %+v", got)
	}

	nobody := &authz.Principal{Role: authz.RoleHROfficer}
	if _, err := svc.ActiveToday(context.Background(), nobody); !errors.Is(err, httpx.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
