package project

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

// Service handles project operations.
type Service struct {
	repo       Repository
	activities activity.Recorder
	logger     *slog.Logger
}

// NewService creates a new project service. activities may be nil.
func NewService(repo Repository, activities activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID          string
	Title       string
	Description string
}

// UpdateRequest defines a partial project update. Nil fields are unchanged.
type UpdateRequest struct {
	ID          string
	Title       *string
	Description *string
}

// Create creates a new active project.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	proj := &Project{
		ID:          id,
		TenantID:    tenantID,
		Title:       title,
		Description: req.Description,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProjectExists
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      fmt.Sprintf("created project %q", proj.Title),
	})

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects matching opts, newest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error) {
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	opts.Query = strings.TrimSpace(opts.Query)

	projects, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update changes a project's title and/or description.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Project, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrInvalidInput
	}

	proj, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		proj.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	proj.UpdatedAt = time.Now()

	if err := s.save(ctx, tenantID, proj); err != nil {
		return nil, err
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectUpdated,
		Summary:      fmt.Sprintf("updated project %q", proj.Title),
	})

	return proj, nil
}

// SetStatus moves a project to status. Entering completed stamps CompletedAt;
// leaving completed clears it.
func (s *Service) SetStatus(ctx context.Context, tenantID, id string, status Status) (*Project, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	proj, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if proj.Status == status {
		return proj, nil
	}

	previous := proj.Status
	now := time.Now()
	proj.Status = status
	proj.UpdatedAt = now
	if status == StatusCompleted {
		proj.CompletedAt = &now
	} else {
		proj.CompletedAt = nil
	}

	if err := s.save(ctx, tenantID, proj); err != nil {
		return nil, err
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectStatusChanged,
		Summary:      fmt.Sprintf("project status %s -> %s", previous, status),
	})

	return proj, nil
}

// Delete removes a project and its tasks.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	activity.Record(ctx, s.activities, s.logger, tenantID, &activity.ActivityEntry{
		ProjectID:    id,
		ActivityType: activity.TypeProjectDeleted,
		Summary:      fmt.Sprintf("deleted project %s", id),
	})
	return nil
}

func (s *Service) save(ctx context.Context, tenantID string, proj *Project) error {
	if err := s.repo.Update(ctx, tenantID, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}
