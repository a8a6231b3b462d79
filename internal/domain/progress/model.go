package progress

import (
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
)

// EnrichedProject is a project annotated with the requesting user's tasks in it.
// UserCompletedCount never exceeds UserTaskCount.
type EnrichedProject struct {
	project.Project
	UserTasks          []task.Task `json:"user_tasks"`
	UserTaskCount      int         `json:"user_task_count"`
	UserCompletedCount int         `json:"user_completed_count"`
}

// Summary aggregates user task counts across enriched projects.
type Summary struct {
	TotalProjects  int `json:"total_projects"`
	TotalTasks     int `json:"total_tasks"`
	TotalCompleted int `json:"total_completed"`
	OverallRate    int `json:"overall_rate"`
}

// ProjectProgress is an enriched project with its completion rate resolved.
type ProjectProgress struct {
	EnrichedProject
	CompletionRate int `json:"completion_rate"`
}

// Overview is the employee project list: every project the user has tasks in,
// plus the totals across them.
type Overview struct {
	UserID   string            `json:"user_id"`
	Projects []ProjectProgress `json:"projects"`
	Summary  Summary           `json:"summary"`
}
