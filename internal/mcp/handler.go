package mcp

import (
	"context"
	"strings"

	"github.com/ganot/tasktrack/internal/auth"
	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
)

// Handler implements the MCP tools on top of the domain services. Every
// method receives the caller resolved by the auth middleware.
type Handler struct {
	projects    ProjectService
	tasks       TaskService
	progress    ProgressService
	activity    ActivityService
	defaultUser string
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services, defaultUser string) *Handler {
	return &Handler{
		projects:    services.Projects,
		tasks:       services.Tasks,
		progress:    services.Progress,
		activity:    services.Activity,
		defaultUser: strings.TrimSpace(defaultUser),
	}
}

func (h *Handler) CreateProject(ctx context.Context, caller auth.Principal, in CreateProjectParams) (ProjectView, error) {
	proj, err := h.projects.Create(ctx, caller.TenantID, project.CreateRequest{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return ProjectView{}, toolError("create project", err)
	}
	return toProjectView(*proj), nil
}

func (h *Handler) GetProject(ctx context.Context, caller auth.Principal, in GetProjectParams) (ProjectView, error) {
	proj, err := h.projects.Get(ctx, caller.TenantID, in.ID)
	if err != nil {
		return ProjectView{}, toolError("get project", err)
	}
	return toProjectView(*proj), nil
}

func (h *Handler) ListProjects(ctx context.Context, caller auth.Principal, in ListProjectsParams) (ProjectListResult, error) {
	projects, err := h.projects.List(ctx, caller.TenantID, project.ListOptions{
		Statuses: projectStatuses(in.Statuses),
		Query:    in.Query,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return ProjectListResult{}, toolError("list projects", err)
	}
	result := ProjectListResult{Projects: make([]ProjectView, 0, len(projects))}
	for _, p := range projects {
		result.Projects = append(result.Projects, toProjectView(p))
	}
	return result, nil
}

func (h *Handler) UpdateProject(ctx context.Context, caller auth.Principal, in UpdateProjectParams) (ProjectView, error) {
	proj, err := h.projects.Update(ctx, caller.TenantID, project.UpdateRequest{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return ProjectView{}, toolError("update project", err)
	}
	return toProjectView(*proj), nil
}

func (h *Handler) SetProjectStatus(ctx context.Context, caller auth.Principal, in SetProjectStatusParams) (ProjectView, error) {
	proj, err := h.projects.SetStatus(ctx, caller.TenantID, in.ID, project.Status(in.Status))
	if err != nil {
		return ProjectView{}, toolError("set project status", err)
	}
	return toProjectView(*proj), nil
}

func (h *Handler) DeleteProject(ctx context.Context, caller auth.Principal, in DeleteProjectParams) (DeleteResult, error) {
	if err := h.projects.Delete(ctx, caller.TenantID, in.ID); err != nil {
		return DeleteResult{}, toolError("delete project", err)
	}
	return DeleteResult{ID: in.ID, Deleted: true}, nil
}

func (h *Handler) CreateTask(ctx context.Context, caller auth.Principal, in CreateTaskParams) (TaskView, error) {
	t, err := h.tasks.Create(ctx, caller.TenantID, task.CreateRequest{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      task.Status(in.Status),
		AssigneeID:  in.AssigneeID,
	})
	if err != nil {
		return TaskView{}, toolError("create task", err)
	}
	return toTaskView(*t), nil
}

func (h *Handler) ListTasks(ctx context.Context, caller auth.Principal, in ListTasksParams) (TaskListResult, error) {
	tasks, err := h.tasks.ListByProject(ctx, caller.TenantID, in.ProjectID, task.ListOptions{
		AssigneeID: in.AssigneeID,
		Statuses:   taskStatuses(in.Statuses),
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return TaskListResult{}, toolError("list tasks", err)
	}
	return TaskListResult{Tasks: toTaskViews(tasks)}, nil
}

func (h *Handler) SetTaskStatus(ctx context.Context, caller auth.Principal, in SetTaskStatusParams) (TaskView, error) {
	t, err := h.tasks.SetStatus(ctx, caller.TenantID, in.ID, task.Status(in.Status))
	if err != nil {
		return TaskView{}, toolError("set task status", err)
	}
	return toTaskView(*t), nil
}

func (h *Handler) AssignTask(ctx context.Context, caller auth.Principal, in AssignTaskParams) (TaskView, error) {
	t, err := h.tasks.Assign(ctx, caller.TenantID, in.ID, in.AssigneeID)
	if err != nil {
		return TaskView{}, toolError("assign task", err)
	}
	return toTaskView(*t), nil
}

func (h *Handler) SearchTasks(ctx context.Context, caller auth.Principal, in SearchTasksParams) (SearchTasksResult, error) {
	hits, err := h.tasks.Search(ctx, caller.TenantID, in.Query, task.SearchOptions{
		ProjectID: in.ProjectID,
		Statuses:  taskStatuses(in.Statuses),
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return SearchTasksResult{}, toolError("search tasks", err)
	}
	result := SearchTasksResult{Results: make([]SearchHit, 0, len(hits))}
	for _, hit := range hits {
		result.Results = append(result.Results, SearchHit{
			Task:    toTaskView(hit.Task),
			Rank:    hit.Rank,
			Snippet: hit.Snippet,
		})
	}
	return result, nil
}

// GetMyProjects returns the caller's project list with completion figures.
func (h *Handler) GetMyProjects(ctx context.Context, caller auth.Principal, in GetMyProjectsParams) (OverviewResult, error) {
	overview, err := h.progress.UserOverview(ctx, caller.TenantID, h.userFor(caller, in.UserID), project.ListOptions{
		Statuses: projectStatuses(in.Statuses),
		Query:    in.Query,
	})
	if err != nil {
		return OverviewResult{}, toolError("get my projects", err)
	}
	return toOverviewResult(overview), nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, caller auth.Principal, in GetRecentActivityParams) (ActivityResult, error) {
	opts := activity.ListActivityOptions{
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.ActivityType != nil {
		typ := activity.ActivityType(*in.ActivityType)
		opts.ActivityType = &typ
	}
	entries, err := h.activity.GetRecentActivity(ctx, caller.TenantID, opts)
	if err != nil {
		return ActivityResult{}, toolError("get recent activity", err)
	}
	result := ActivityResult{Entries: make([]ActivityView, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, toActivityView(e))
	}
	return result, nil
}

// userFor picks the user a request acts for: the key's user, then the
// requested one, then the configured default.
func (h *Handler) userFor(caller auth.Principal, requested string) string {
	if caller.UserID != "" {
		return caller.UserID
	}
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	return h.defaultUser
}
