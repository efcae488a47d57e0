package permissions

import (
	"testing"

	"github.com/meridian-hr/meridian-hr/internal/authz"
)

func TestStringsToActionsSkipsUnknownAndDuplicateTokens(t *testing.T) {
	got := stringsToActions([]string{
		"CREATE_EMPLOYEE",
		"MANAGE_PAYROLL", // never part of the action set
		"VIEW_DOCUMENTS",
		"CREATE_EMPLOYEE",
	})
	want := []authz.Action{authz.ActionCreateEmployee, authz.ActionViewDocuments}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestActionsToStringsRoundTrips(t *testing.T) {
	actions := []authz.Action{authz.ActionUploadDocuments, authz.ActionGenerateReports}
	tokens := actionsToStrings(actions)
	back := stringsToActions(tokens)
	if len(back) != len(actions) {
		t.Fatalf("round trip lost actions: %v", back)
	}
	for i := range actions {
		if back[i] != actions[i] {
			t.Fatalf("round trip changed order: %v vs %v", back, actions)
		}
	}
}
