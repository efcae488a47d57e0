// Package authz holds the role model, the permission evaluator, and
// principal resolution for the HR platform.
package authz

import "fmt"

// Role is one of the three ordered access tiers.
type Role int

const (
	// RoleHROfficer is the least privileged tier; rights come from an
	// explicit per-officer allow-list.
	RoleHROfficer Role = iota + 1
	// RoleHRManager holds every action implicitly.
	RoleHRManager
	// RoleSuperAdmin holds every action implicitly and administers the system.
	RoleSuperAdmin
)

// ErrUnknownRole indicates a role name outside the fixed hierarchy. This is
// a configuration error, never a deny.
var ErrUnknownRole = fmt.Errorf("authz: unknown role")

var roleNames = map[Role]string{
	RoleHROfficer:  "HROfficer",
	RoleHRManager:  "HRManager",
	RoleSuperAdmin: "SuperAdmin",
}

var roleLabels = map[Role]string{
	RoleHROfficer:  "HR Officer",
	RoleHRManager:  "HR Manager",
	RoleSuperAdmin: "Super Admin",
}

// ParseRole maps a stored role name onto the hierarchy.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// String returns the canonical role name.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return r.String()
}

// Valid reports whether the role belongs to the fixed hierarchy.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Rank exposes the total order over roles. Higher rank means more privilege.
func (r Role) Rank() int {
	return int(r)
}

// Roles lists the hierarchy from least to most privileged.
func Roles() []Role {
	return []Role{RoleHROfficer, RoleHRManager, RoleSuperAdmin}
}
