package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ganot/tasktrack/internal/config"
	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/logging"
	"github.com/ganot/tasktrack/internal/sqlite"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath string
	tenant string
}

// NewRootCommand builds the tasktrack CLI.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Inspect tasktrack projects from the command line",
		Long:          `tasktrack reads the project database directly to report per-user progress and manage API keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (defaults to the configured path)")
	cmd.PersistentFlags().StringVar(&opts.tenant, "tenant", "", "tenant id (defaults to the configured default tenant)")

	cmd.AddCommand(newReportCommand(opts))
	cmd.AddCommand(newAPIKeyCommand(opts))
	return cmd
}

// app holds the services a command needs, backed by one database handle.
type app struct {
	cfg      config.Config
	db       *sqlite.DB
	logger   *slog.Logger
	tenant   string
	progress *progress.Service
	apiKeys  *sqlite.APIKeyRepository
	closeLog func() error
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.DB.Path = opts.dbPath
	}

	logger, closeLog, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		closeLog()
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		closeLog()
		return nil, err
	}

	tenant := opts.tenant
	if tenant == "" {
		tenant = cfg.Auth.DefaultTenant
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), activitySvc, logger)
	taskSvc := task.NewService(sqlite.NewTaskRepository(db), sqlite.NewSearchRepository(db), activitySvc, logger)

	return &app{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		tenant:   tenant,
		progress: progress.NewService(projectSvc, taskSvc, progress.NewAggregator(cfg.Progress.FetchConcurrency, logger), logger),
		apiKeys:  sqlite.NewAPIKeyRepository(db),
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.closeLog()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
