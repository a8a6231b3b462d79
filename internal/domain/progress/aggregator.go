package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"golang.org/x/sync/errgroup"
)

// TaskFetcher returns the requesting user's tasks within one project.
// It may fail independently for each project.
type TaskFetcher func(ctx context.Context, projectID string) ([]task.Task, error)

// Aggregator builds the enriched, filtered project view for a user.
// It holds no state between calls.
type Aggregator struct {
	limit  int
	logger *slog.Logger
}

// NewAggregator creates an Aggregator. limit caps in-flight fetches; zero or
// negative means every project is fetched at once.
func NewAggregator(limit int, logger *slog.Logger) *Aggregator {
	return &Aggregator{limit: limit, logger: logger}
}

// fetchResult is one project's settled fetch. A failed fetch resolves to no
// tasks through orEmpty.
type fetchResult struct {
	tasks []task.Task
	err   error
}

func (r fetchResult) orEmpty() []task.Task {
	if r.err != nil {
		return nil
	}
	return r.tasks
}

// EnrichAndFilter fetches every project's user tasks concurrently, waits for
// all of them to settle, and returns the projects that have at least one user
// task, in input order. Fetch failures count as zero tasks and are never
// returned.
func (a *Aggregator) EnrichAndFilter(ctx context.Context, projects []project.Project, fetch TaskFetcher) []EnrichedProject {
	results := make([]fetchResult, len(projects))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, proj := range projects {
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, proj.ID, fetch)
			return nil
		})
	}
	// Workers always return nil; failures live in results.
	_ = g.Wait()

	enriched := make([]EnrichedProject, 0, len(projects))
	for i, proj := range projects {
		tasks := results[i].orEmpty()
		if len(tasks) == 0 {
			continue
		}
		enriched = append(enriched, enrich(proj, tasks))
	}
	return enriched
}

func (a *Aggregator) fetchOne(ctx context.Context, projectID string, fetch TaskFetcher) (res fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: fmt.Errorf("task fetch panicked: %v", r)}
		}
		if res.err != nil && a.logger != nil {
			a.logger.Warn("task fetch failed, treating project as empty", "project_id", projectID, "error", res.err)
		}
	}()

	if fetch == nil {
		return fetchResult{err: fmt.Errorf("no task fetcher")}
	}
	tasks, err := fetch(ctx, projectID)
	return fetchResult{tasks: tasks, err: err}
}

func enrich(proj project.Project, tasks []task.Task) EnrichedProject {
	completed := 0
	for _, t := range tasks {
		if t.Status.IsDone() {
			completed++
		}
	}
	return EnrichedProject{
		Project:            proj,
		UserTasks:          tasks,
		UserTaskCount:      len(tasks),
		UserCompletedCount: completed,
	}
}

// CompletionRate is the rounded percentage of the user's tasks in ep that are done.
func CompletionRate(ep EnrichedProject) int {
	return percent(ep.UserCompletedCount, ep.UserTaskCount)
}

// Summarize totals user task counts across projects.
func Summarize(projects []EnrichedProject) Summary {
	s := Summary{TotalProjects: len(projects)}
	for _, ep := range projects {
		s.TotalTasks += ep.UserTaskCount
		s.TotalCompleted += ep.UserCompletedCount
	}
	s.OverallRate = percent(s.TotalCompleted, s.TotalTasks)
	return s
}

// percent returns round(100*part/total) with halves rounded up, 0 for an empty
// total, clamped to [0,100].
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := (200*part + total) / (2 * total)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
