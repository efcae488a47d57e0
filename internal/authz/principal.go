package authz

// Principal is the resolved identity of the current actor. It is an
// immutable value threaded through the request context; a nil *Principal
// means "unauthenticated" and every check denies it.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  Role

	// AllowedActions is populated only for HR Officers, from their
	// Permission record. It must not be consulted for other roles.
	AllowedActions ActionSet
}

// Can reports whether the principal may perform the action.
// Managers and admins are never restricted by an allow-list; officers are
// granted exactly their stored actions, and a missing allow-list denies
// everything.
func Can(p *Principal, action Action) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleSuperAdmin || p.Role == RoleHRManager {
		return true
	}
	return p.AllowedActions.Contains(action)
}

// HasRole reports whether the principal's role is one of the given roles.
func HasRole(p *Principal, roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// IsAtLeast reports whether the principal's role ranks at or above the
// given role. The comparison is reflexive.
func IsAtLeast(p *Principal, role Role) bool {
	if p == nil {
		return false
	}
	return p.Role.Rank() >= role.Rank()
}
