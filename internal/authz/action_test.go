package authz

import (
	"errors"
	"testing"
)

func TestParseActionRejectsUnknownToken(t *testing.T) {
	if _, err := ParseAction("DESTROY_EVERYTHING"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	got, err := ParseAction("VIEW_EMPLOYEE")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != ActionViewEmployee {
		t.Fatalf("got %v", got)
	}
}

func TestActionSetContainsNilSafe(t *testing.T) {
	var s ActionSet
	if s.Contains(ActionViewEmployee) {
		t.Fatalf("nil set must contain nothing")
	}
}

func TestActionSetSliceDeclarationOrder(t *testing.T) {
	s := NewActionSet(ActionGenerateReports, ActionCreateEmployee, ActionCreateEmployee)
	got := s.Slice()
	if len(got) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(got))
	}
	if got[0] != ActionCreateEmployee || got[1] != ActionGenerateReports {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestDefaultActions(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleHRManager} {
		set := DefaultActions(role)
		for _, a := range AllActions() {
			if !set.Contains(a) {
				t.Fatalf("%v should default to %v", role, a)
			}
		}
	}
	officer := DefaultActions(RoleHROfficer)
	if !officer.Contains(ActionViewEmployee) {
		t.Fatalf("officer default should include view")
	}
	if officer.Contains(ActionDeleteEmployee) {
		t.Fatalf("officer default must not include delete")
	}
	if len(DefaultActions(Role(0))) != 0 {
		t.Fatalf("invalid role should default to empty set")
	}
}
