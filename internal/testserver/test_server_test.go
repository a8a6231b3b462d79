package testserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// seedScenario creates two projects: one where the user holds three tasks
// (two done) and one where the user holds none.
func seedScenario(t *testing.T, ts *testserver.TestServer) {
	t.Helper()
	ctx := context.Background()
	user := ts.UserID
	other := "bob"

	p1, err := ts.Projects.Create(ctx, ts.TenantID, project.CreateRequest{ID: "1", Title: "Website"})
	require.NoError(t, err)
	p2, err := ts.Projects.Create(ctx, ts.TenantID, project.CreateRequest{ID: "2", Title: "Backoffice"})
	require.NoError(t, err)

	for _, st := range []task.Status{task.StatusDone, task.StatusTodo, task.StatusDone} {
		_, err := ts.Tasks.Create(ctx, ts.TenantID, task.CreateRequest{ProjectID: p1.ID, Title: "page", Status: st, AssigneeID: &user})
		require.NoError(t, err)
	}
	_, err = ts.Tasks.Create(ctx, ts.TenantID, task.CreateRequest{ProjectID: p2.ID, Title: "ledger", AssigneeID: &other})
	require.NoError(t, err)
}

func get(t *testing.T, ts *testserver.TestServer, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type overviewBody struct {
	UserID   string `json:"user_id"`
	Projects []struct {
		ID                 string `json:"id"`
		UserTaskCount      int    `json:"user_task_count"`
		UserCompletedCount int    `json:"user_completed_count"`
		CompletionRate     int    `json:"completion_rate"`
	} `json:"projects"`
	Summary struct {
		TotalProjects  int `json:"total_projects"`
		TotalTasks     int `json:"total_tasks"`
		TotalCompleted int `json:"total_completed"`
		OverallRate    int `json:"overall_rate"`
	} `json:"summary"`
}

func TestHTTP_MyProjects(t *testing.T) {
	ts := testserver.New(t, "acme", "alice")
	seedScenario(t, ts)

	resp := get(t, ts, "/api/me/projects", ts.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body overviewBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "alice", body.UserID)
	require.Len(t, body.Projects, 1)
	require.Equal(t, "1", body.Projects[0].ID)
	require.Equal(t, 3, body.Projects[0].UserTaskCount)
	require.Equal(t, 2, body.Projects[0].UserCompletedCount)
	require.Equal(t, 67, body.Projects[0].CompletionRate)
	require.Equal(t, 1, body.Summary.TotalProjects)
	require.Equal(t, 3, body.Summary.TotalTasks)
	require.Equal(t, 2, body.Summary.TotalCompleted)
	require.Equal(t, 67, body.Summary.OverallRate)
}

func TestHTTP_ListProjectsIsTenantScoped(t *testing.T) {
	ts := testserver.New(t, "acme", "alice")
	seedScenario(t, ts)

	otherToken, err := ts.APIKeys.CreateAPIKey(context.Background(), "globex", "carol", "")
	require.NoError(t, err)

	resp := get(t, ts, "/api/projects?status=active", ts.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine struct {
		Projects []project.Project `json:"projects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mine))
	require.Len(t, mine.Projects, 2)

	resp = get(t, ts, "/api/projects", otherToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var theirs struct {
		Projects []project.Project `json:"projects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&theirs))
	require.Empty(t, theirs.Projects)
}

func TestHTTP_RejectsMissingAndUnknownTokens(t *testing.T) {
	ts := testserver.New(t, "acme", "alice")

	require.Equal(t, http.StatusUnauthorized, get(t, ts, "/api/me/projects", "").StatusCode)
	require.Equal(t, http.StatusUnauthorized, get(t, ts, "/api/me/projects", "tt_bogus").StatusCode)
	require.Equal(t, http.StatusOK, get(t, ts, "/health", "").StatusCode)
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}

func connectMCP(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: ts.Token, base: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.False(t, res.IsError, text.Text)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
}

func TestMCP_EndToEndOverview(t *testing.T) {
	ts := testserver.New(t, "acme", "alice")
	session := connectMCP(t, ts)

	var created struct {
		ID string `json:"id"`
	}
	callTool(t, session, "create_project", map[string]any{"title": "Mobile app"}, &created)
	require.NotEmpty(t, created.ID)

	for _, status := range []string{"done", "in_progress"} {
		callTool(t, session, "create_task", map[string]any{
			"project_id":  created.ID,
			"title":       "screen",
			"status":      status,
			"assignee_id": "alice",
		}, nil)
	}

	// user_id is ignored because the key is bound to alice.
	var overview struct {
		UserID   string `json:"user_id"`
		Projects []struct {
			Project struct {
				ID string `json:"id"`
			} `json:"project"`
			CompletionRate int `json:"completion_rate"`
		} `json:"projects"`
		Summary struct {
			OverallRate int `json:"overall_rate"`
		} `json:"summary"`
	}
	callTool(t, session, "get_my_projects", map[string]any{"user_id": "mallory"}, &overview)
	require.Equal(t, "alice", overview.UserID)
	require.Len(t, overview.Projects, 1)
	require.Equal(t, created.ID, overview.Projects[0].Project.ID)
	require.Equal(t, 50, overview.Projects[0].CompletionRate)
	require.Equal(t, 50, overview.Summary.OverallRate)

	var activity struct {
		Entries []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	callTool(t, session, "get_recent_activity", map[string]any{"project_id": created.ID}, &activity)
	require.Len(t, activity.Entries, 3)
}
