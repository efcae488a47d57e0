// Package activity implements the append-only activity trail: who did what,
// when, to which resource. Entries stay valid and displayable after the
// resource they reference is deleted.
package activity

import (
	"fmt"
	"time"
)

// ResourceType classifies the resource an entry refers to.
type ResourceType string

const (
	ResourceEmployee   ResourceType = "Employee"
	ResourceDocument   ResourceType = "Document"
	ResourceLeave      ResourceType = "Leave"
	ResourceUser       ResourceType = "User"
	ResourcePermission ResourceType = "Permission"
)

// Valid reports whether the resource type is one of the known kinds.
func (rt ResourceType) Valid() bool {
	switch rt {
	case ResourceEmployee, ResourceDocument, ResourceLeave, ResourceUser, ResourcePermission:
		return true
	}
	return false
}

// Entry is one immutable activity record. Once written it is never mutated;
// it is only ever created or administratively deleted.
type Entry struct {
	ID          int64        `json:"id"`
	LogID       string       `json:"log_id"`
	ActorEmail  string       `json:"actor_email"`
	ActorName   string       `json:"actor_name,omitempty"`
	Action      string       `json:"action"`
	Resource    ResourceType `json:"resource_type"`
	ResourceID  string       `json:"resource_id"`
	Description string       `json:"description"`
	Details     string       `json:"details,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (e Entry) validate() error {
	if e.Action == "" || e.ResourceID == "" || e.ActorEmail == "" {
		return fmt.Errorf("activity: entry requires action, resource id and actor email")
	}
	if !e.Resource.Valid() {
		return fmt.Errorf("activity: unknown resource type %q", e.Resource)
	}
	return nil
}
