package authz

import "testing"

func TestCanNilPrincipalDeniesEverything(t *testing.T) {
	for _, a := range AllActions() {
		if Can(nil, a) {
			t.Fatalf("nil principal must be denied %v", a)
		}
	}
}

func TestCanManagerAndAdminHoldEveryAction(t *testing.T) {
	for _, role := range []Role{RoleHRManager, RoleSuperAdmin} {
		p := &Principal{Email: "boss@example.com", Role: role}
		for _, a := range AllActions() {
			if !Can(p, a) {
				t.Fatalf("%v should hold %v", role, a)
			}
		}
	}
}

func TestCanOfficerIsBoundToAllowList(t *testing.T) {
	p := &Principal{
		Email:          "kemi@example.com",
		Role:           RoleHROfficer,
		AllowedActions: NewActionSet(ActionViewEmployee, ActionUploadDocuments),
	}
	if !Can(p, ActionViewEmployee) || !Can(p, ActionUploadDocuments) {
		t.Fatalf("granted actions should be allowed")
	}
	for _, a := range []Action{ActionCreateEmployee, ActionEditEmployee, ActionDeleteEmployee, ActionViewDocuments, ActionGenerateReports} {
		if Can(p, a) {
			t.Fatalf("officer must be denied %v", a)
		}
	}
}

func TestCanOfficerWithoutRecordDeniesEverything(t *testing.T) {
	p := &Principal{Email: "new@example.com", Role: RoleHROfficer}
	for _, a := range AllActions() {
		if Can(p, a) {
			t.Fatalf("officer without allow-list must be denied %v", a)
		}
	}
}

func TestHasRole(t *testing.T) {
	p := &Principal{Role: RoleHRManager}
	if !HasRole(p, RoleHRManager) {
		t.Fatalf("exact role should match")
	}
	if HasRole(p, RoleSuperAdmin) {
		t.Fatalf("HasRole must not cross tiers")
	}
	if !HasRole(p, RoleSuperAdmin, RoleHRManager) {
		t.Fatalf("any of the listed roles should match")
	}
	if HasRole(nil, RoleHROfficer) {
		t.Fatalf("nil principal has no role")
	}
}

func TestIsAtLeastMatrix(t *testing.T) {
	cases := []struct {
		have Role
		want Role
		ok   bool
	}{
		{RoleHROfficer, RoleHROfficer, true},
		{RoleHROfficer, RoleHRManager, false},
		{RoleHROfficer, RoleSuperAdmin, false},
		{RoleHRManager, RoleHROfficer, true},
		{RoleHRManager, RoleHRManager, true},
		{RoleHRManager, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleHROfficer, true},
		{RoleSuperAdmin, RoleHRManager, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},
	}
	for _, tc := range cases {
		p := &Principal{Role: tc.have}
		if got := IsAtLeast(p, tc.want); got != tc.ok {
			t.Fatalf("IsAtLeast(%v, %v) = %v, want %v", tc.have, tc.want, got, tc.ok)
		}
	}
	if IsAtLeast(nil, RoleHROfficer) {
		t.Fatalf("nil principal ranks below everything")
	}
}
