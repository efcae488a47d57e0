package employees

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// FormData carries the mutable profile fields of an employee record.
type FormData struct {
	FirstName  string
	LastName   string
	Department string
	Position   string
	Email      string
	Phone      string
	Status     Status
}

// Service handles employee business logic. Every mutation re-checks the
// acting principal with the same evaluator that gates the routes, and fires
// exactly one activity entry on success.
type Service struct {
	repo     RepositoryPort
	recorder *activity.Recorder
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns all employee records.
func (s *Service) List(ctx context.Context, actor *authz.Principal) ([]Employee, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) {
		return nil, httpx.ErrForbidden
	}
	return s.repo.List(ctx)
}

// Get fetches one record by business ID.
func (s *Service) Get(ctx context.Context, actor *authz.Principal, employeeID string) (Employee, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) {
		return Employee{}, httpx.ErrForbidden
	}
	return s.repo.FindByEmployeeID(ctx, employeeID)
}

// Search filters records by a case-folded match across name, email,
// department, position, and business ID.
func (s *Service) Search(ctx context.Context, actor *authz.Principal, query string) ([]Employee, error) {
	all, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	var matched []Employee
	for _, e := range all {
		haystack := fold(strings.Join([]string{
			e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.EmployeeID,
		}, " "))
		if strings.Contains(haystack, q) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Create inserts a new employee record and logs the creation.
func (s *Service) Create(ctx context.Context, actor *authz.Principal, form FormData) (Employee, error) {
	if !authz.Can(actor, authz.ActionCreateEmployee) {
		return Employee{}, httpx.ErrForbidden
	}
	if err := validateForm(form); err != nil {
		return Employee{}, err
	}

	created, err := s.repo.Create(ctx, Employee{
		EmployeeID: NewEmployeeID(),
		FirstName:  strings.TrimSpace(form.FirstName),
		LastName:   strings.TrimSpace(form.LastName),
		Department: strings.TrimSpace(form.Department),
		Position:   strings.TrimSpace(form.Position),
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:      strings.TrimSpace(form.Phone),
		Status:     form.Status,
		CreatedBy:  actor.Email,
	})
	if err != nil {
		return Employee{}, err
	}

	s.recorder.Record(ctx, "Employee Created", activity.ResourceEmployee, created.EmployeeID,
		fmt.Sprintf("Created employee record for %s (%s)", created.FullName(), created.Department),
		actor.Email, actor.Name, "")
	return created, nil
}

// Update replaces the profile fields of an existing record.
func (s *Service) Update(ctx context.Context, actor *authz.Principal, employeeID string, form FormData) (Employee, error) {
	if !authz.Can(actor, authz.ActionEditEmployee) {
		return Employee{}, httpx.ErrForbidden
	}
	if err := validateForm(form); err != nil {
		return Employee{}, err
	}

	updated, err := s.repo.Update(ctx, Employee{
		EmployeeID: employeeID,
		FirstName:  strings.TrimSpace(form.FirstName),
		LastName:   strings.TrimSpace(form.LastName),
		Department: strings.TrimSpace(form.Department),
		Position:   strings.TrimSpace(form.Position),
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:      strings.TrimSpace(form.Phone),
		Status:     form.Status,
	})
	if err != nil {
		return Employee{}, err
	}

	s.recorder.Record(ctx, "Employee Updated", activity.ResourceEmployee, updated.EmployeeID,
		fmt.Sprintf("Updated employee record for %s", updated.FullName()),
		actor.Email, actor.Name, "")
	return updated, nil
}

// Delete removes a record. The operation succeeds independently of whether
// the activity trail could record it.
func (s *Service) Delete(ctx context.Context, actor *authz.Principal, employeeID string) error {
	if !authz.Can(actor, authz.ActionDeleteEmployee) {
		return httpx.ErrForbidden
	}
	affected, err := s.repo.Delete(ctx, employeeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	s.recorder.Record(ctx, "Employee Deleted", activity.ResourceEmployee, employeeID,
		fmt.Sprintf("Deleted employee record %s", employeeID),
		actor.Email, actor.Name, "")
	return nil
}

// Stats summarises headcounts for the dashboard.
func (s *Service) Stats(ctx context.Context, actor *authz.Principal) (Stats, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) && !authz.Can(actor, authz.ActionGenerateReports) {
		return Stats{}, httpx.ErrForbidden
	}
	return s.repo.Stats(ctx)
}

// fold builds a fresh caser per call; cases.Caser is not safe for
// concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func validateForm(form FormData) error {
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
		return fmt.Errorf("%w: first and last name required", httpx.ErrValidation)
	}
	if strings.TrimSpace(form.Email) == "" {
		return fmt.Errorf("%w: email required", httpx.ErrValidation)
	}
	if !form.Status.Valid() {
		return fmt.Errorf("%w: status must be Active or Inactive", httpx.ErrValidation)
	}
	return nil
}
