// Package leave manages employee leave records.
package leave

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the approval state of a leave record.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Record is one leave entry. Dates are calendar days, inclusive on both
// ends.
type Record struct {
	ID         int64     `json:"-"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Reason     string    `json:"reason,omitempty"`
	Status     Status    `json:"status"`
	ApprovedBy string    `json:"approved_by,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActiveRecord is a leave record enriched with employee display fields for
// the on-leave-today panel.
type ActiveRecord struct {
	Record
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
}

// NewLeaveID mints a business identifier.
func NewLeaveID() string {
	return "LV-" + strings.ToUpper(uuid.NewString()[:8])
}
