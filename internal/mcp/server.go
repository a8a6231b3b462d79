package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/tasktrack/internal/auth"
	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
	Update(ctx context.Context, tenantID string, req project.UpdateRequest) (*project.Project, error)
	SetStatus(ctx context.Context, tenantID, id string, status project.Status) (*project.Project, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Create(ctx context.Context, tenantID string, req task.CreateRequest) (*task.Task, error)
	ListByProject(ctx context.Context, tenantID, projectID string, opts task.ListOptions) ([]task.Task, error)
	SetStatus(ctx context.Context, tenantID, id string, status task.Status) (*task.Task, error)
	Assign(ctx context.Context, tenantID, id string, assigneeID *string) (*task.Task, error)
	Search(ctx context.Context, tenantID, query string, opts task.SearchOptions) ([]task.SearchResult, error)
}

// ProgressService builds per-user project overviews.
type ProgressService interface {
	UserOverview(ctx context.Context, tenantID, userID string, opts project.ListOptions) (*progress.Overview, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Tasks    TaskService
	Progress ProgressService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      auth.Resolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	DefaultTenant string
	DefaultUser   string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tasktrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	defaultTenant := cfg.DefaultTenant
	if defaultTenant == "" {
		defaultTenant = "default"
	}

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultTenant))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services, cfg.DefaultUser))

	return server
}
