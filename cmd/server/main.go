package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ganot/tasktrack/internal/config"
	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/logging"
	"github.com/ganot/tasktrack/internal/mcp"
	"github.com/ganot/tasktrack/internal/sqlite"
	"github.com/ganot/tasktrack/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	logger, closeLog, err := logging.Setup(logWriter, cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), activitySvc, logger)
	taskSvc := task.NewService(sqlite.NewTaskRepository(db), sqlite.NewSearchRepository(db), activitySvc, logger)
	progressSvc := progress.NewService(projectSvc, taskSvc, progress.NewAggregator(cfg.Progress.FetchConcurrency, logger), logger)

	resolver := sqlite.NewAPIKeyRepository(db)
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Tasks:    taskSvc,
			Progress: progressSvc,
			Activity: activitySvc,
		},
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultTenant: cfg.Auth.DefaultTenant,
		DefaultUser:   cfg.Auth.DefaultUser,
		Logger:        logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		runStdioMode(logger, mcpServer)
		return
	}

	opts := transport.Options{
		MCP:           transport.NewMCPHandler(mcpServer),
		Projects:      projectSvc,
		Progress:      progressSvc,
		DefaultTenant: cfg.Auth.DefaultTenant,
		DefaultUser:   cfg.Auth.DefaultUser,
		Logger:        logger,
	}
	if cfg.Auth.Enabled {
		opts.Resolver = resolver
	}
	runHTTPMode(logger, transport.NewRouter(opts), cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
