package task

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// IsDone reports whether s counts as completed.
func (s Status) IsDone() bool {
	return s == StatusDone
}

// Task is a single work item inside a project, optionally assigned to a user.
type Task struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SearchResult is a full-text hit over task title and description.
type SearchResult struct {
	Task    Task    `json:"task"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}
