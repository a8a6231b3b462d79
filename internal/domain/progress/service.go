package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
)

// ProjectLister lists the candidate projects for an overview.
type ProjectLister interface {
	List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error)
}

// UserTaskSource builds a per-project lookup of one user's tasks.
type UserTaskSource interface {
	UserTasksFetcher(tenantID, userID string) func(ctx context.Context, projectID string) ([]task.Task, error)
}

// Service builds user progress overviews from live project and task data.
type Service struct {
	projects   ProjectLister
	tasks      UserTaskSource
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewService creates a progress service.
func NewService(projects ProjectLister, tasks UserTaskSource, aggregator *Aggregator, logger *slog.Logger) *Service {
	if aggregator == nil {
		aggregator = NewAggregator(0, logger)
	}
	return &Service{
		projects:   projects,
		tasks:      tasks,
		aggregator: aggregator,
		logger:     logger,
	}
}

// UserOverview lists the projects matching opts, keeps those where userID has
// tasks, and summarizes them. Failing to list projects is an error; failing
// to load one project's tasks is not.
func (s *Service) UserOverview(ctx context.Context, tenantID, userID string, opts project.ListOptions) (*Overview, error) {
	userID = strings.TrimSpace(userID)
	if tenantID == "" || userID == "" {
		return nil, ErrInvalidInput
	}

	projects, err := s.projects.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	enriched := s.aggregator.EnrichAndFilter(ctx, projects, s.tasks.UserTasksFetcher(tenantID, userID))

	overview := &Overview{
		UserID:   userID,
		Projects: make([]ProjectProgress, 0, len(enriched)),
		Summary:  Summarize(enriched),
	}
	for _, ep := range enriched {
		overview.Projects = append(overview.Projects, ProjectProgress{
			EnrichedProject: ep,
			CompletionRate:  CompletionRate(ep),
		})
	}

	if s.logger != nil {
		s.logger.Debug("built user overview",
			"tenant_id", tenantID,
			"user_id", userID,
			"candidates", len(projects),
			"projects", overview.Summary.TotalProjects,
			"tasks", overview.Summary.TotalTasks,
		)
	}
	return overview, nil
}
