// Package auth implements the identity boundary: credential checks, account
// groups, sessions, and password reset flows.
package auth

import "time"

// Account represents a user account able to sign in.
type Account struct {
	ID                   int64
	Email                string
	Name                 string
	PasswordHash         string
	Groups               []string
	IsActive             bool
	RequirePasswordReset bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
