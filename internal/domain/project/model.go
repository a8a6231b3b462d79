package project

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Statuses lists every valid project status in display order.
var Statuses = []Status{StatusActive, StatusOnHold, StatusCompleted, StatusArchived}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Project groups tasks. TaskCount and CompletedTaskCount are computed by the
// store across all tasks of the project, regardless of assignee.
type Project struct {
	ID                 string     `json:"id"`
	TenantID           string     `json:"tenant_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Status             Status     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	TaskCount          int        `json:"task_count"`
	CompletedTaskCount int        `json:"completed_task_count"`
}
