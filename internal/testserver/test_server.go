// Package testserver runs the full HTTP stack against an in-memory database
// for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/mcp"
	"github.com/ganot/tasktrack/internal/sqlite"
	"github.com/ganot/tasktrack/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	TenantID string
	UserID   string

	Projects *project.Service
	Tasks    *task.Service
	Activity *activity.Service
	Progress *progress.Service
	APIKeys  *sqlite.APIKeyRepository
}

// New starts a server with bearer auth enabled and issues one API key bound
// to tenantID and userID.
func New(t *testing.T, tenantID, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), activitySvc, nil)
	taskSvc := task.NewService(sqlite.NewTaskRepository(db), sqlite.NewSearchRepository(db), activitySvc, nil)
	progressSvc := progress.NewService(projectSvc, taskSvc, progress.NewAggregator(0, nil), nil)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Tasks:    taskSvc,
			Progress: progressSvc,
			Activity: activitySvc,
		},
		Resolver:      apiKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})

	server := httptest.NewServer(transport.NewRouter(transport.Options{
		MCP:      transport.NewMCPHandler(mcpServer),
		Projects: projectSvc,
		Progress: progressSvc,
		Resolver: apiKeys,
	}))

	token, err := apiKeys.CreateAPIKey(context.Background(), tenantID, userID, "test")
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		TenantID: tenantID,
		UserID:   userID,
		Projects: projectSvc,
		Tasks:    taskSvc,
		Activity: activitySvc,
		Progress: progressSvc,
		APIKeys:  apiKeys,
	}
}
