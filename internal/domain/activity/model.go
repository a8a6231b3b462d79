package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated       ActivityType = "project_created"
	TypeProjectUpdated       ActivityType = "project_updated"
	TypeProjectStatusChanged ActivityType = "project_status_changed"
	TypeProjectDeleted       ActivityType = "project_deleted"
	TypeTaskCreated          ActivityType = "task_created"
	TypeTaskStatusChanged    ActivityType = "task_status_changed"
	TypeTaskAssigned         ActivityType = "task_assigned"
	TypeTaskDeleted          ActivityType = "task_deleted"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectID    string       `json:"project_id"`
	TaskID       *string      `json:"task_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
