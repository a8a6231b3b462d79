package mcp

import (
	"context"

	"github.com/ganot/tasktrack/internal/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolFunc[In, Out any] func(ctx context.Context, caller auth.Principal, in In) (Out, error)

// addTool registers fn as a typed tool. Errors become tool results with
// IsError set, carrying the mapped error code in their text.
func addTool[In, Out any](server *sdkmcp.Server, name, description string, fn toolFunc[In, Out]) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
			var zero Out
			caller, err := callerFrom(ctx)
			if err != nil {
				return nil, zero, toolError(name, err)
			}
			out, err := fn(ctx, caller, in)
			if err != nil {
				return nil, zero, err
			}
			return nil, out, nil
		})
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	addTool(server, "create_project", "Create a project. The id is generated when omitted.", h.CreateProject)
	addTool(server, "list_projects", "List projects, optionally filtered by status and text", h.ListProjects)
	addTool(server, "get_project", "Get a project with its task counts", h.GetProject)
	addTool(server, "update_project", "Change a project's title or description", h.UpdateProject)
	addTool(server, "set_project_status", "Move a project to active, on_hold, completed or archived", h.SetProjectStatus)
	addTool(server, "delete_project", "Delete a project and all of its tasks", h.DeleteProject)

	// Tasks
	addTool(server, "create_task", "Create a task in a project, optionally assigned to a user", h.CreateTask)
	addTool(server, "list_tasks", "List a project's tasks, optionally filtered by assignee and status", h.ListTasks)
	addTool(server, "set_task_status", "Move a task to todo, in_progress or done", h.SetTaskStatus)
	addTool(server, "assign_task", "Assign a task to a user, or unassign it", h.AssignTask)
	addTool(server, "search_tasks", "Full-text search over task titles and descriptions", h.SearchTasks)

	// Progress
	addTool(server, "get_my_projects", "List the projects where the user has tasks, with per-project and overall completion rates", h.GetMyProjects)
	addTool(server, "get_recent_activity", "List recent project and task activity, newest first", h.GetRecentActivity)
}
