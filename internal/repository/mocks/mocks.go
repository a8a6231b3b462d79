package mocks

import (
	"context"

	"github.com/ganot/tasktrack/internal/domain/activity"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, tenantID string, t *task.Task) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListByProject(ctx context.Context, tenantID, projectID string, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, tenantID, projectID, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, tenantID string, t *task.Task) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// TaskSearchRepository is a mock for task.SearchRepository.
type TaskSearchRepository struct {
	mock.Mock
}

func (m *TaskSearchRepository) Search(ctx context.Context, tenantID, query string, opts task.SearchOptions) ([]task.SearchResult, error) {
	args := m.Called(ctx, tenantID, query, opts)
	if list, ok := args.Get(0).([]task.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
