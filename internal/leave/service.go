package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// FormData carries the mutable fields of a leave record.
type FormData struct {
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     Status
	ApprovedBy string
}

// Service handles leave business logic. Reads ride the employee view
// permission; mutations require the edit permission.
type Service struct {
	repo     RepositoryPort
	recorder *activity.Recorder
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// ListByEmployee returns an employee's leave history, newest start first.
func (s *Service) ListByEmployee(ctx context.Context, actor *authz.Principal, employeeID string) ([]Record, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) {
		return nil, httpx.ErrForbidden
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}

// Create records a new leave entry against an employee.
func (s *Service) Create(ctx context.Context, actor *authz.Principal, employeeID string, form FormData) (Record, error) {
	if !authz.Can(actor, authz.ActionEditEmployee) {
		return Record{}, httpx.ErrForbidden
	}
	if err := validateForm(form); err != nil {
		return Record{}, err
	}

	created, err := s.repo.Create(ctx, Record{
		LeaveID:    NewLeaveID(),
		EmployeeID: employeeID,
		LeaveType:  strings.TrimSpace(form.LeaveType),
		StartDate:  form.StartDate,
		EndDate:    form.EndDate,
		Reason:     strings.TrimSpace(form.Reason),
		Status:     form.Status,
		ApprovedBy: strings.TrimSpace(form.ApprovedBy),
		CreatedBy:  actor.Email,
	})
	if err != nil {
		return Record{}, err
	}

	s.recorder.Record(ctx, "Leave Recorded", activity.ResourceLeave, created.LeaveID,
		fmt.Sprintf("Recorded %s leave for employee %s (%s to %s)",
			created.LeaveType, created.EmployeeID,
			created.StartDate.Format("2006-01-02"), created.EndDate.Format("2006-01-02")),
		actor.Email, actor.Name, "")
	return created, nil
}

// Update replaces the mutable fields of an existing leave record.
func (s *Service) Update(ctx context.Context, actor *authz.Principal, leaveID string, form FormData) (Record, error) {
	if !authz.Can(actor, authz.ActionEditEmployee) {
		return Record{}, httpx.ErrForbidden
	}
	if err := validateForm(form); err != nil {
		return Record{}, err
	}

	updated, err := s.repo.Update(ctx, Record{
		LeaveID:    leaveID,
		LeaveType:  strings.TrimSpace(form.LeaveType),
		StartDate:  form.StartDate,
		EndDate:    form.EndDate,
		Reason:     strings.TrimSpace(form.Reason),
		Status:     form.Status,
		ApprovedBy: strings.TrimSpace(form.ApprovedBy),
	})
	if err != nil {
		return Record{}, err
	}

	s.recorder.Record(ctx, "Leave Updated", activity.ResourceLeave, updated.LeaveID,
		fmt.Sprintf("Updated leave record %s for employee %s (status %s)",
			updated.LeaveID, updated.EmployeeID, updated.Status),
		actor.Email, actor.Name, "")
	return updated, nil
}

// Delete removes a leave record. Deleting an unknown ID is a no-op.
func (s *Service) Delete(ctx context.Context, actor *authz.Principal, leaveID string) error {
	if !authz.Can(actor, authz.ActionEditEmployee) {
		return httpx.ErrForbidden
	}
	affected, err := s.repo.Delete(ctx, leaveID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	s.recorder.Record(ctx, "Leave Deleted", activity.ResourceLeave, leaveID,
		fmt.Sprintf("Deleted leave record %s", leaveID),
		actor.Email, actor.Name, "")
	return nil
}

// ActiveToday lists approved leave in effect today, soonest return first.
func (s *Service) ActiveToday(ctx context.Context, actor *authz.Principal) ([]ActiveRecord, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) && !authz.Can(actor, authz.ActionGenerateReports) {
		return nil, httpx.ErrForbidden
	}
	return s.repo.ActiveOn(ctx, time.Now().UTC())
}

func validateForm(form FormData) error {
	if strings.TrimSpace(form.LeaveType) == "" {
		return fmt.Errorf("%w: leave type required", httpx.ErrValidation)
	}
	if form.StartDate.IsZero() || form.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates required", httpx.ErrValidation)
	}
	if form.EndDate.Before(form.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", httpx.ErrValidation)
	}
	if !form.Status.Valid() {
		return fmt.Errorf("%w: status must be Pending, Approved, or Rejected", httpx.ErrValidation)
	}
	return nil
}
