package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/repository"
	"github.com/google/uuid"
)

// Service handles task business logic.
type Service struct {
	tasks      Repository
	search     SearchRepository
	activities activity.Recorder
	logger     *slog.Logger
}

// NewService creates a new task service. search and activities may be nil.
func NewService(tasks Repository, search SearchRepository, activities activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		tasks:      tasks,
		search:     search,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	ProjectID   string
	Title       string
	Description string
	Status      Status
	AssigneeID  *string
}

// Create adds a task to a project. Status defaults to todo.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Task, error) {
	title := strings.TrimSpace(req.Title)
	if strings.TrimSpace(req.ProjectID) == "" || title == "" {
		return nil, ErrInvalidInput
	}

	status := req.Status
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	t := &Task{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ProjectID:   req.ProjectID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		AssigneeID:  normalizeAssignee(req.AssigneeID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status.IsDone() {
		t.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, tenantID, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    t.ProjectID,
		TaskID:       &t.ID,
		ActivityType: activity.TypeTaskCreated,
		Summary:      fmt.Sprintf("created task %q", t.Title),
	})

	return t, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Task, error) {
	t, err := s.tasks.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// ListByProject returns the tasks of one project, oldest first.
func (s *Service) ListByProject(ctx context.Context, tenantID, projectID string, opts ListOptions) ([]Task, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrInvalidInput
	}
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	tasks, err := s.tasks.ListByProject(ctx, tenantID, projectID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// UserTasksFetcher returns a lookup of the tasks assigned to userID within a
// single project of tenantID.
func (s *Service) UserTasksFetcher(tenantID, userID string) func(ctx context.Context, projectID string) ([]Task, error) {
	return func(ctx context.Context, projectID string) ([]Task, error) {
		return s.ListByProject(ctx, tenantID, projectID, ListOptions{AssigneeID: &userID})
	}
}

// SetStatus moves a task to status, maintaining CompletedAt.
func (s *Service) SetStatus(ctx context.Context, tenantID, id string, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t.Status == status {
		return t, nil
	}

	previous := t.Status
	now := time.Now()
	t.Status = status
	t.UpdatedAt = now
	if status.IsDone() {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}

	if err := s.save(ctx, tenantID, t); err != nil {
		return nil, err
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    t.ProjectID,
		TaskID:       &t.ID,
		ActivityType: activity.TypeTaskStatusChanged,
		Summary:      fmt.Sprintf("task status %s -> %s", previous, status),
	})

	return t, nil
}

// Assign sets or clears (nil or blank assigneeID) the task's assignee.
func (s *Service) Assign(ctx context.Context, tenantID, id string, assigneeID *string) (*Task, error) {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	t.AssigneeID = normalizeAssignee(assigneeID)
	t.UpdatedAt = time.Now()

	if err := s.save(ctx, tenantID, t); err != nil {
		return nil, err
	}

	summary := "unassigned task"
	if t.AssigneeID != nil {
		summary = fmt.Sprintf("assigned task to %s", *t.AssigneeID)
	}
	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    t.ProjectID,
		TaskID:       &t.ID,
		ActivityType: activity.TypeTaskAssigned,
		Summary:      summary,
	})

	return t, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	t, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    t.ProjectID,
		TaskID:       &t.ID,
		ActivityType: activity.TypeTaskDeleted,
		Summary:      fmt.Sprintf("deleted task %q", t.Title),
	})
	return nil
}

// Search runs full-text search over task titles and descriptions.
func (s *Service) Search(ctx context.Context, tenantID, query string, opts SearchOptions) ([]SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search repository not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidInput
	}
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	results, err := s.search.Search(ctx, tenantID, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	return results, nil
}

func (s *Service) save(ctx context.Context, tenantID string, t *Task) error {
	if err := s.tasks.Update(ctx, tenantID, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func normalizeAssignee(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
