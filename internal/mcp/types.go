package mcp

import (
	"time"

	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
)

type CreateProjectParams struct {
	ID          string `json:"id,omitempty" jsonschema:"project identifier, generated when omitted"`
	Title       string `json:"title" jsonschema:"project title"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type ListProjectsParams struct {
	Statuses []string `json:"statuses,omitempty" jsonschema:"filter by status: active, on_hold, completed, archived"`
	Query    string   `json:"query,omitempty" jsonschema:"case-insensitive text matched against title and description"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of projects"`
	Offset   int      `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type UpdateProjectParams struct {
	ID          string  `json:"id" jsonschema:"project identifier"`
	Title       *string `json:"title,omitempty" jsonschema:"new title"`
	Description *string `json:"description,omitempty" jsonschema:"new description"`
}

type SetProjectStatusParams struct {
	ID     string `json:"id" jsonschema:"project identifier"`
	Status string `json:"status" jsonschema:"active, on_hold, completed or archived"`
}

type DeleteProjectParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type CreateTaskParams struct {
	ProjectID   string  `json:"project_id" jsonschema:"owning project identifier"`
	Title       string  `json:"title" jsonschema:"task title"`
	Description string  `json:"description,omitempty" jsonschema:"task description"`
	Status      string  `json:"status,omitempty" jsonschema:"todo, in_progress or done; defaults to todo"`
	AssigneeID  *string `json:"assignee_id,omitempty" jsonschema:"user the task is assigned to"`
}

type ListTasksParams struct {
	ProjectID  string   `json:"project_id" jsonschema:"project identifier"`
	AssigneeID *string  `json:"assignee_id,omitempty" jsonschema:"only tasks assigned to this user"`
	Statuses   []string `json:"statuses,omitempty" jsonschema:"filter by status: todo, in_progress, done"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of tasks"`
	Offset     int      `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type SetTaskStatusParams struct {
	ID     string `json:"id" jsonschema:"task identifier"`
	Status string `json:"status" jsonschema:"todo, in_progress or done"`
}

type AssignTaskParams struct {
	ID         string  `json:"id" jsonschema:"task identifier"`
	AssigneeID *string `json:"assignee_id,omitempty" jsonschema:"user to assign; omit or leave empty to unassign"`
}

type SearchTasksParams struct {
	Query     string   `json:"query" jsonschema:"search text matched against task title and description"`
	ProjectID string   `json:"project_id,omitempty" jsonschema:"restrict to one project"`
	Statuses  []string `json:"statuses,omitempty" jsonschema:"filter by status: todo, in_progress, done"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
	Offset    int      `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type GetMyProjectsParams struct {
	UserID   string   `json:"user_id,omitempty" jsonschema:"user to report on when the caller is not bound to one"`
	Statuses []string `json:"statuses,omitempty" jsonschema:"only consider projects with these statuses"`
	Query    string   `json:"query,omitempty" jsonschema:"only consider projects matching this text"`
}

type GetRecentActivityParams struct {
	ProjectID    string  `json:"project_id,omitempty" jsonschema:"restrict to one project"`
	TaskID       *string `json:"task_id,omitempty" jsonschema:"restrict to one task"`
	ActivityType *string `json:"activity_type,omitempty" jsonschema:"restrict to one activity type"`
	Limit        int     `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset       int     `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

// ProjectView is the tool representation of a project.
type ProjectView struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
	CompletedAt        string `json:"completed_at,omitempty"`
	TaskCount          int    `json:"task_count"`
	CompletedTaskCount int    `json:"completed_task_count"`
}

// TaskView is the tool representation of a task.
type TaskView struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type ProjectListResult struct {
	Projects []ProjectView `json:"projects"`
}

type TaskListResult struct {
	Tasks []TaskView `json:"tasks"`
}

type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type SearchHit struct {
	Task    TaskView `json:"task"`
	Rank    float64  `json:"rank"`
	Snippet string   `json:"snippet,omitempty"`
}

type SearchTasksResult struct {
	Results []SearchHit `json:"results"`
}

// ProjectProgressView is one row of the user's project list.
type ProjectProgressView struct {
	Project            ProjectView `json:"project"`
	UserTaskCount      int         `json:"user_task_count"`
	UserCompletedCount int         `json:"user_completed_count"`
	CompletionRate     int         `json:"completion_rate"`
	UserTasks          []TaskView  `json:"user_tasks"`
}

type OverviewResult struct {
	UserID   string                `json:"user_id"`
	Projects []ProjectProgressView `json:"projects"`
	Summary  progress.Summary      `json:"summary"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	TaskID    string `json:"task_id,omitempty"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func toProjectView(p project.Project) ProjectView {
	return ProjectView{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Status:             string(p.Status),
		CreatedAt:          formatTime(p.CreatedAt),
		UpdatedAt:          formatTime(p.UpdatedAt),
		CompletedAt:        formatTimePtr(p.CompletedAt),
		TaskCount:          p.TaskCount,
		CompletedTaskCount: p.CompletedTaskCount,
	}
}

func toTaskView(t task.Task) TaskView {
	view := TaskView{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
		CompletedAt: formatTimePtr(t.CompletedAt),
	}
	if t.AssigneeID != nil {
		view.AssigneeID = *t.AssigneeID
	}
	return view
}

func toTaskViews(tasks []task.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, toTaskView(t))
	}
	return views
}

func toOverviewResult(o *progress.Overview) OverviewResult {
	result := OverviewResult{
		UserID:   o.UserID,
		Projects: make([]ProjectProgressView, 0, len(o.Projects)),
		Summary:  o.Summary,
	}
	for _, p := range o.Projects {
		result.Projects = append(result.Projects, ProjectProgressView{
			Project:            toProjectView(p.Project),
			UserTaskCount:      p.UserTaskCount,
			UserCompletedCount: p.UserCompletedCount,
			CompletionRate:     p.CompletionRate,
			UserTasks:          toTaskViews(p.UserTasks),
		})
	}
	return result
}

func toActivityView(e activity.ActivityEntry) ActivityView {
	view := ActivityView{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		Type:      string(e.ActivityType),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: formatTime(e.CreatedAt),
	}
	if e.TaskID != nil {
		view.TaskID = *e.TaskID
	}
	return view
}

func projectStatuses(values []string) []project.Status {
	if len(values) == 0 {
		return nil
	}
	out := make([]project.Status, len(values))
	for i, v := range values {
		out[i] = project.Status(v)
	}
	return out
}

func taskStatuses(values []string) []task.Status {
	if len(values) == 0 {
		return nil
	}
	out := make([]task.Status, len(values))
	for i, v := range values {
		out[i] = task.Status(v)
	}
	return out
}
