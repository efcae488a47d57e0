package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// Service orchestrates officer provisioning and allow-list edits.
type Service struct {
	repo     RepositoryPort
	recorder *activity.Recorder
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// ListOfficers returns every provisioned HR Officer.
func (s *Service) ListOfficers(ctx context.Context) ([]Officer, error) {
	return s.repo.List(ctx)
}

// ActionsByEmail implements authz.PermissionSource. A missing record is not
// an error: the officer simply has no allow-list.
func (s *Service) ActionsByEmail(ctx context.Context, email string) (authz.ActionSet, bool, error) {
	officer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return officer.ActionSet(), true, nil
}

// CreateOfficer provisions an HR Officer with an allow-list. An empty list
// falls back to the advisory role default.
func (s *Service) CreateOfficer(ctx context.Context, email, name string, actions []authz.Action, assignedBy *authz.Principal) (Officer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return Officer{}, fmt.Errorf("permissions: officer email required")
	}
	if name == "" {
		name = email
	}
	if err := validateActions(actions); err != nil {
		return Officer{}, err
	}
	if len(actions) == 0 {
		actions = authz.DefaultActions(authz.RoleHROfficer).Slice()
	}

	officer, err := s.repo.Create(ctx, Officer{
		RoleRecordID:   "ROLE-" + uuid.NewString(),
		UserID:         email,
		Email:          email,
		Name:           name,
		AllowedActions: actions,
		AssignedBy:     assignedBy.Email,
	})
	if err != nil {
		return Officer{}, err
	}

	s.recorder.Record(ctx, "Officer Provisioned", activity.ResourcePermission, officer.UserID,
		fmt.Sprintf("Provisioned HR Officer %s with %d allowed action(s)", officer.Email, len(officer.AllowedActions)),
		assignedBy.Email, assignedBy.Name, joinActions(officer.AllowedActions))
	return officer, nil
}

// ReplaceAllowedActions swaps an officer's allow-list wholesale. The change
// takes effect the next time the officer's principal is resolved.
func (s *Service) ReplaceAllowedActions(ctx context.Context, userID string, actions []authz.Action, editedBy *authz.Principal) (Officer, error) {
	if err := validateActions(actions); err != nil {
		return Officer{}, err
	}
	raw := make([]string, len(actions))
	for i, a := range actions {
		raw[i] = string(a)
	}
	officer, err := s.repo.ReplaceActions(ctx, userID, raw)
	if err != nil {
		return Officer{}, err
	}

	s.recorder.Record(ctx, "Permissions Updated", activity.ResourcePermission, officer.UserID,
		fmt.Sprintf("Updated allowed actions for %s", officer.Email),
		editedBy.Email, editedBy.Name, joinActions(officer.AllowedActions))
	return officer, nil
}

// DeleteOfficer removes the officer's Permission record. Deleting a record
// that does not exist is treated as already satisfied.
func (s *Service) DeleteOfficer(ctx context.Context, userID string, deletedBy *authz.Principal) error {
	affected, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	s.recorder.Record(ctx, "Officer Removed", activity.ResourcePermission, userID,
		fmt.Sprintf("Removed HR Officer record %s", userID),
		deletedBy.Email, deletedBy.Name, "")
	return nil
}

func validateActions(actions []authz.Action) error {
	for _, a := range actions {
		if !a.Valid() {
			return fmt.Errorf("%w: %q", authz.ErrUnknownAction, a)
		}
	}
	return nil
}

func joinActions(actions []authz.Action) string {
	tokens := make([]string, len(actions))
	for i, a := range actions {
		tokens[i] = string(a)
	}
	return strings.Join(tokens, ",")
}

var _ authz.PermissionSource = (*Service)(nil)
