package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tasktrack tracks Projects and the Tasks inside them, per tenant.

Core concepts:
- Project: title, description and a status (active, on_hold, completed, archived). Carries project-wide task_count and completed_task_count.
- Task: belongs to one project; status todo, in_progress or done; optionally assigned to one user.
- My projects: the projects where a user has at least one assigned task, each with that user's task count, done count and completion rate, plus totals.

Default workflow:
1) Orient: call get_my_projects to see where the user has work and how far along it is.
2) Browse: list_projects (filter by statuses or query), list_tasks for one project, search_tasks for text.
3) Change: create_project / update_project / set_project_status, create_task / set_task_status / assign_task.
4) Review: get_recent_activity shows what changed, newest first.

Identity:
- HTTP with auth: the bearer key decides tenant and user; user_id inputs are ignored.
- Otherwise: get_my_projects uses user_id when given, else the server's default user.

Docs:
- tasktrack://docs/index
- tasktrack://docs/progress
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tasktrack://docs/index",
		Name:        "docs_index",
		Title:       "tasktrack docs index",
		Description: "Entry point for agent-facing docs: tools by purpose and what to read next.",
		Content: `# tasktrack: Agent Docs Index

## Tools by purpose

- Orientation: ` + "`get_my_projects`" + `, ` + "`get_recent_activity`" + `
- Projects: ` + "`create_project`" + `, ` + "`list_projects`" + `, ` + "`get_project`" + `, ` + "`update_project`" + `, ` + "`set_project_status`" + `, ` + "`delete_project`" + `
- Tasks: ` + "`create_task`" + `, ` + "`list_tasks`" + `, ` + "`set_task_status`" + `, ` + "`assign_task`" + `, ` + "`search_tasks`" + `

## Errors

Failed calls return a tool error whose text starts with a code:
` + "`PROJECT_NOT_FOUND`" + `, ` + "`TASK_NOT_FOUND`" + `, ` + "`PROJECT_EXISTS`" + `, ` + "`INVALID_STATUS`" + `, ` + "`INVALID_INPUT`" + `, ` + "`UNAUTHORIZED`" + `.
The text in parentheses suggests how to recover.

## Read next

- ` + "`tasktrack://docs/progress`" + ` explains how completion rates are computed.
`,
	},
	{
		URI:         "tasktrack://docs/progress",
		Name:        "docs_progress",
		Title:       "How project progress is computed",
		Description: "Rules behind get_my_projects: which projects appear and how rates round.",
		Content: `# How project progress is computed

## Which projects appear

` + "`get_my_projects`" + ` lists candidate projects (optionally filtered by status or text), then loads the user's assigned tasks for every project at once.
Projects where the user has no tasks are left out. A project whose tasks could not be loaded is treated as having none, so it is left out too; the rest of the list is unaffected.
The remaining projects keep the order of ` + "`list_projects`" + ` (newest first).

## Counts and rates

- ` + "`user_task_count`" + `: tasks assigned to the user in the project.
- ` + "`user_completed_count`" + `: those with status ` + "`done`" + `.
- ` + "`completion_rate`" + `: ` + "`round(100 * completed / total)`" + ` with halves rounded up; 0 when there are no tasks.
- ` + "`summary`" + `: total projects, tasks and completed tasks across the list, and the overall rate computed the same way.

Example: 3 tasks with 2 done gives 67.

## Project-wide counts

` + "`task_count`" + ` and ` + "`completed_task_count`" + ` on a project cover every task regardless of assignee. Use the ` + "`user_*`" + ` fields for the user's own progress.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
