package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ganot/tasktrack/internal/auth"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectLister lists projects for the REST surface.
type ProjectLister interface {
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
}

// OverviewProvider builds a user's project overview.
type OverviewProvider interface {
	UserOverview(ctx context.Context, tenantID, userID string, opts project.ListOptions) (*progress.Overview, error)
}

// Options configures the HTTP router.
type Options struct {
	// MCP serves /mcp. It authenticates on its own from the forwarded headers.
	MCP      http.Handler
	Projects ProjectLister
	Progress OverviewProvider
	// Resolver enables bearer auth on /api when set.
	Resolver      auth.Resolver
	DefaultTenant string
	DefaultUser   string
	Logger        *slog.Logger
}

// Server serves the JSON API.
type Server struct {
	projects    ProjectLister
	progress    OverviewProvider
	defaultUser string
	logger      *slog.Logger
}

// NewMCPHandler exposes an MCP server over streamable HTTP.
func NewMCPHandler(mcpServer *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

// NewRouter creates the HTTP router with MCP, health and API endpoints.
func NewRouter(opts Options) http.Handler {
	srv := &Server{
		projects:    opts.Projects,
		progress:    opts.Progress,
		defaultUser: strings.TrimSpace(opts.DefaultUser),
		logger:      opts.Logger,
	}

	principal := DefaultPrincipalMiddleware(opts.DefaultTenant)
	if opts.Resolver != nil {
		principal = AuthMiddleware(opts.Resolver, opts.Logger)
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/projects", srv.handleListProjects)
	api.HandleFunc("GET /api/me/projects", srv.handleMyProjects)

	router := http.NewServeMux()
	if opts.MCP != nil {
		router.Handle("/mcp", opts.MCP)
		router.Handle("/mcp/", opts.MCP)
	}
	router.HandleFunc("GET /health", srv.handleHealth)
	router.Handle("/api/", principal(api))

	return requestLogging(opts.Logger, router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	projects, err := s.projects.List(r.Context(), caller.TenantID, listOptions(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleMyProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing tenant")
		return
	}

	userID := caller.UserID
	if userID == "" {
		userID = strings.TrimSpace(r.URL.Query().Get("user"))
	}
	if userID == "" {
		userID = s.defaultUser
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	overview, err := s.progress.UserOverview(r.Context(), caller.TenantID, userID, listOptions(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// listOptions reads repeated or comma-separated ?status= values and ?q=.
func listOptions(r *http.Request) project.ListOptions {
	query := r.URL.Query()
	var opts project.ListOptions
	for _, raw := range query["status"] {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				opts.Statuses = append(opts.Statuses, project.Status(st))
			}
		}
	}
	opts.Query = strings.TrimSpace(query.Get("q"))
	return opts
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, progress.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, project.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
