package authz

import (
	"context"
	"errors"
	"testing"
)

type stubPermissionSource struct {
	actions ActionSet
	found   bool
	err     error
	calls   int
}

func (s *stubPermissionSource) ActionsByEmail(ctx context.Context, email string) (ActionSet, bool, error) {
	s.calls++
	return s.actions, s.found, s.err
}

type countingObserver struct{ n int }

func (c *countingObserver) ObserveUnmappedGroups() { c.n++ }

func TestResolveRolePriority(t *testing.T) {
	role, mapped, err := ResolveRole([]string{GroupHROfficer, GroupSuperAdmin, GroupHRManager}, FallbackDeny)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !mapped || role != RoleSuperAdmin {
		t.Fatalf("highest group must win, got %v mapped=%v", role, mapped)
	}

	role, mapped, err = ResolveRole([]string{GroupHRManager, GroupHROfficer}, FallbackDeny)
	if err != nil || !mapped || role != RoleHRManager {
		t.Fatalf("manager should outrank officer, got %v mapped=%v err=%v", role, mapped, err)
	}
}

func TestResolveRoleFallbackOfficer(t *testing.T) {
	role, mapped, err := ResolveRole([]string{"Contractors"}, FallbackOfficer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mapped {
		t.Fatalf("unknown group must report unmapped")
	}
	if role != RoleHROfficer {
		t.Fatalf("fallback should be officer, got %v", role)
	}
}

func TestResolveRoleFallbackDeny(t *testing.T) {
	_, _, err := ResolveRole(nil, FallbackDeny)
	if !errors.Is(err, ErrUnmappedGroups) {
		t.Fatalf("expected ErrUnmappedGroups, got %v", err)
	}
}

func TestParseFallbackPolicy(t *testing.T) {
	if p, err := ParseFallbackPolicy(""); err != nil || p != FallbackOfficer {
		t.Fatalf("empty policy should default to officer, got %v %v", p, err)
	}
	if _, err := ParseFallbackPolicy("banish"); err == nil {
		t.Fatalf("unknown policy must be rejected")
	}
}

func TestResolverCopiesOfficerAllowList(t *testing.T) {
	perms := &stubPermissionSource{
		actions: NewActionSet(ActionViewEmployee, ActionGenerateReports),
		found:   true,
	}
	r := NewResolver(perms, FallbackOfficer, nil, nil)

	p, err := r.Resolve(context.Background(), Identity{
		UserID: "USR-1",
		Email:  "kemi@example.com",
		Groups: []string{GroupHROfficer},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != RoleHROfficer {
		t.Fatalf("got role %v", p.Role)
	}
	if !Can(p, ActionGenerateReports) || Can(p, ActionDeleteEmployee) {
		t.Fatalf("allow-list not applied: %v", p.AllowedActions)
	}
}

func TestResolverOfficerWithoutRecordGetsEmptyAllowList(t *testing.T) {
	perms := &stubPermissionSource{found: false}
	r := NewResolver(perms, FallbackOfficer, nil, nil)

	p, err := r.Resolve(context.Background(), Identity{Email: "new@example.com", Groups: []string{GroupHROfficer}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, a := range AllActions() {
		if Can(p, a) {
			t.Fatalf("officer without record must be denied %v", a)
		}
	}
}

func TestResolverSkipsAllowListForManagers(t *testing.T) {
	perms := &stubPermissionSource{found: true, actions: NewActionSet(ActionViewEmployee)}
	r := NewResolver(perms, FallbackOfficer, nil, nil)

	p, err := r.Resolve(context.Background(), Identity{Email: "boss@example.com", Groups: []string{GroupHRManager}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if perms.calls != 0 {
		t.Fatalf("manager resolution must not consult the permission source")
	}
	if !Can(p, ActionDeleteEmployee) {
		t.Fatalf("manager holds every action")
	}
}

func TestResolverCountsUnmappedUsers(t *testing.T) {
	obs := &countingObserver{}
	r := NewResolver(&stubPermissionSource{}, FallbackOfficer, nil, obs)

	if _, err := r.Resolve(context.Background(), Identity{Email: "odd@example.com", Groups: []string{"Visitors"}}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if obs.n != 1 {
		t.Fatalf("expected 1 unmapped observation, got %d", obs.n)
	}
}

func TestResolverDenyPolicyRejectsUnmapped(t *testing.T) {
	r := NewResolver(&stubPermissionSource{}, FallbackDeny, nil, nil)
	_, err := r.Resolve(context.Background(), Identity{Email: "odd@example.com"})
	if !errors.Is(err, ErrUnmappedGroups) {
		t.Fatalf("expected ErrUnmappedGroups, got %v", err)
	}
}
