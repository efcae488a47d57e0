package authz

import (
	"context"
	"fmt"
	"log/slog"
)

// Group names issued by the identity layer. They intentionally mirror the
// role names so provisioning stays obvious.
const (
	GroupSuperAdmin = "SuperAdmin"
	GroupHRManager  = "HRManager"
	GroupHROfficer  = "HROfficer"
)

// FallbackPolicy decides what happens when none of a user's groups maps to
// a role.
type FallbackPolicy string

const (
	// FallbackOfficer resolves unmapped users to HROfficer. This keeps the
	// historical behavior: officers are the least privileged tier and an
	// officer without a Permission record can do nothing anyway.
	FallbackOfficer FallbackPolicy = "officer"
	// FallbackDeny rejects unmapped users outright.
	FallbackDeny FallbackPolicy = "deny"
)

// ErrUnmappedGroups indicates the user belongs to no recognized group and
// the fallback policy is deny.
var ErrUnmappedGroups = fmt.Errorf("authz: no recognized group membership")

// ParseFallbackPolicy validates a configured policy name.
func ParseFallbackPolicy(name string) (FallbackPolicy, error) {
	switch FallbackPolicy(name) {
	case FallbackOfficer, FallbackDeny:
		return FallbackPolicy(name), nil
	case "":
		return FallbackOfficer, nil
	default:
		return "", fmt.Errorf("authz: unknown fallback policy %q", name)
	}
}

// ResolveRole maps a set of group memberships to exactly one role using a
// fixed priority. The second return value reports whether any group matched;
// when it is false the returned role is the policy fallback (or invalid for
// FallbackDeny).
func ResolveRole(groups []string, policy FallbackPolicy) (Role, bool, error) {
	has := func(name string) bool {
		for _, g := range groups {
			if g == name {
				return true
			}
		}
		return false
	}
	switch {
	case has(GroupSuperAdmin):
		return RoleSuperAdmin, true, nil
	case has(GroupHRManager):
		return RoleHRManager, true, nil
	case has(GroupHROfficer):
		return RoleHROfficer, true, nil
	}
	if policy == FallbackDeny {
		return 0, false, ErrUnmappedGroups
	}
	return RoleHROfficer, false, nil
}

// Identity is the raw assertion produced by the identity layer at session
// establishment.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Groups []string
}

// PermissionSource looks up an officer's stored allow-list. The boolean is
// false when no Permission record exists for the email.
type PermissionSource interface {
	ActionsByEmail(ctx context.Context, email string) (ActionSet, bool, error)
}

// UnmappedObserver counts users resolved through the fallback policy, so a
// misconfigured group assignment is visible instead of silently blending in
// with legitimate officers.
type UnmappedObserver interface {
	ObserveUnmappedGroups()
}

// Resolver turns a raw Identity into a Principal.
type Resolver struct {
	perms    PermissionSource
	policy   FallbackPolicy
	logger   *slog.Logger
	unmapped UnmappedObserver
}

// NewResolver constructs a Resolver. The observer may be nil.
func NewResolver(perms PermissionSource, policy FallbackPolicy, logger *slog.Logger, unmapped UnmappedObserver) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{perms: perms, policy: policy, logger: logger, unmapped: unmapped}
}

// Resolve maps groups to a role and, for HR Officers, copies the stored
// allow-list onto the principal. A missing Permission record leaves the
// allow-list empty, which denies every action.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (*Principal, error) {
	role, mapped, err := ResolveRole(id.Groups, r.policy)
	if err != nil {
		return nil, err
	}
	if !mapped {
		r.logger.Warn("user resolved via fallback policy",
			slog.String("email", id.Email),
			slog.String("policy", string(r.policy)))
		if r.unmapped != nil {
			r.unmapped.ObserveUnmappedGroups()
		}
	}

	p := &Principal{
		ID:    id.UserID,
		Email: id.Email,
		Name:  id.Name,
		Role:  role,
	}
	if role != RoleHROfficer {
		return p, nil
	}

	actions, found, err := r.perms.ActionsByEmail(ctx, id.Email)
	if err != nil {
		return nil, fmt.Errorf("authz: resolve allow-list: %w", err)
	}
	if found {
		p.AllowedActions = actions
	}
	return p, nil
}
