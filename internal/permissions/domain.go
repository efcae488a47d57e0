// Package permissions owns the per-officer Permission records: the explicit
// allow-lists that determine what an HR Officer may do.
package permissions

import (
	"time"

	"github.com/meridian-hr/meridian-hr/internal/authz"
)

// Officer is one Permission record. There is at most one per HR Officer,
// keyed by email; managers and admins never have one.
type Officer struct {
	ID             int64          `json:"-"`
	RoleRecordID   string         `json:"role_record_id"`
	UserID         string         `json:"user_id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	AllowedActions []authz.Action `json:"allowed_actions"`
	AssignedBy     string         `json:"assigned_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ActionSet returns the allow-list as a set.
func (o Officer) ActionSet() authz.ActionSet {
	return authz.NewActionSet(o.AllowedActions...)
}
