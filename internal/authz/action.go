package authz

import "fmt"

// Action is a capability token gating one kind of state-changing or
// sensitive read operation. The set is closed and known at build time.
type Action string

const (
	ActionCreateEmployee  Action = "CREATE_EMPLOYEE"
	ActionEditEmployee    Action = "EDIT_EMPLOYEE"
	ActionDeleteEmployee  Action = "DELETE_EMPLOYEE"
	ActionViewEmployee    Action = "VIEW_EMPLOYEE"
	ActionUploadDocuments Action = "UPLOAD_DOCUMENTS"
	ActionViewDocuments   Action = "VIEW_DOCUMENTS"
	ActionGenerateReports Action = "GENERATE_REPORTS"
)

// ErrUnknownAction indicates a token outside the closed action set.
var ErrUnknownAction = fmt.Errorf("authz: unknown action")

var actionLabels = map[Action]string{
	ActionCreateEmployee:  "Create Employee Records",
	ActionEditEmployee:    "Edit Employee Records",
	ActionDeleteEmployee:  "Delete Employee Records",
	ActionViewEmployee:    "View Employee Records",
	ActionUploadDocuments: "Upload Documents",
	ActionViewDocuments:   "View Documents",
	ActionGenerateReports: "Generate Reports",
}

// AllActions returns the full action set in declaration order.
func AllActions() []Action {
	return []Action{
		ActionCreateEmployee,
		ActionEditEmployee,
		ActionDeleteEmployee,
		ActionViewEmployee,
		ActionUploadDocuments,
		ActionViewDocuments,
		ActionGenerateReports,
	}
}

// ParseAction validates a stored capability token.
func ParseAction(token string) (Action, error) {
	a := Action(token)
	if _, ok := actionLabels[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	return a, nil
}

// Label returns the display name for an action.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Valid reports whether the action belongs to the closed set.
func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

// ActionSet is an unordered collection of actions. Duplicates in the input
// are harmless; membership is what matters.
type ActionSet map[Action]struct{}

// NewActionSet builds a set from a list, dropping duplicates.
func NewActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Contains reports membership. A nil set contains nothing.
func (s ActionSet) Contains(a Action) bool {
	if s == nil {
		return false
	}
	_, ok := s[a]
	return ok
}

// Slice returns the members in declaration order of the full action set.
func (s ActionSet) Slice() []Action {
	out := make([]Action, 0, len(s))
	for _, a := range AllActions() {
		if s.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// DefaultActions returns the implicit permission table per role.
// For HR Officers the result is advisory only; an officer's actual rights
// come from their stored allow-list.
func DefaultActions(role Role) ActionSet {
	switch role {
	case RoleSuperAdmin, RoleHRManager:
		return NewActionSet(AllActions()...)
	case RoleHROfficer:
		return NewActionSet(ActionViewEmployee)
	default:
		return NewActionSet()
	}
}
