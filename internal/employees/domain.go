// Package employees manages employee profile records.
package employees

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the employment state of a record.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Employee is one employee profile, keyed by a business EmployeeID distinct
// from the storage primary key.
type Employee struct {
	ID         int64     `json:"-"`
	EmployeeID string    `json:"employee_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Status     Status    `json:"status"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FullName joins first and last name for display.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Stats summarises the workforce for the dashboard.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// NewEmployeeID mints a business identifier.
func NewEmployeeID() string {
	return "EMP-" + strings.ToUpper(uuid.NewString()[:8])
}
