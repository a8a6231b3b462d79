package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/repository"
	"github.com/ganot/tasktrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskService_CreateDefaults(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, "tenant1", mock.Anything).Return(nil)

	svc := task.NewService(repo, nil, nil, nil)
	created, err := svc.Create(ctx, "tenant1", task.CreateRequest{
		ProjectID:  "p1",
		Title:      "Write docs",
		AssigneeID: strPtr("  "),
	})
	require.NoError(t, err)
	require.Equal(t, task.StatusTodo, created.Status)
	require.Nil(t, created.AssigneeID)
	require.Nil(t, created.CompletedAt)
}

func TestTaskService_CreateDoneStampsCompletion(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, "tenant1", mock.Anything).Return(nil)

	svc := task.NewService(repo, nil, nil, nil)
	created, err := svc.Create(ctx, "tenant1", task.CreateRequest{ProjectID: "p1", Title: "Ship", Status: task.StatusDone})
	require.NoError(t, err)
	require.NotNil(t, created.CompletedAt)
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := task.NewService(&mocks.TaskRepository{}, nil, nil, nil)

	_, err := svc.Create(ctx, "tenant1", task.CreateRequest{Title: "no project"})
	require.ErrorIs(t, err, task.ErrInvalidInput)

	_, err = svc.Create(ctx, "tenant1", task.CreateRequest{ProjectID: "p1", Title: "x", Status: "blocked"})
	require.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestTaskService_CreateUnknownProject(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, "tenant1", mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := task.NewService(repo, nil, nil, nil)
	_, err := svc.Create(ctx, "tenant1", task.CreateRequest{ProjectID: "nope", Title: "x"})
	require.ErrorIs(t, err, task.ErrProjectNotFound)
}

func TestTaskService_SetStatus(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "tenant1", "t1").Return(&task.Task{ID: "t1", ProjectID: "p1", Status: task.StatusTodo}, nil)
	repo.On("Update", ctx, "tenant1", mock.Anything).Return(nil)

	svc := task.NewService(repo, nil, nil, nil)
	updated, err := svc.SetStatus(ctx, "tenant1", "t1", task.StatusDone)
	require.NoError(t, err)
	require.Equal(t, task.StatusDone, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestTaskService_UserTasksFetcherScopesToAssignee(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("ListByProject", ctx, "tenant1", "p1", mock.MatchedBy(func(opts task.ListOptions) bool {
		return opts.AssigneeID != nil && *opts.AssigneeID == "alice"
	})).Return([]task.Task{{ID: "t1", Status: task.StatusDone}}, nil)

	svc := task.NewService(repo, nil, nil, nil)
	fetch := svc.UserTasksFetcher("tenant1", "alice")

	tasks, err := fetch(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	repo.AssertExpectations(t)
}

func TestTaskService_SearchRequiresQuery(t *testing.T) {
	svc := task.NewService(&mocks.TaskRepository{}, &mocks.TaskSearchRepository{}, nil, nil)
	_, err := svc.Search(context.Background(), "tenant1", " ", task.SearchOptions{})
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestTaskService_SearchRejectsUnknownStatus(t *testing.T) {
	search := &mocks.TaskSearchRepository{}
	svc := task.NewService(&mocks.TaskRepository{}, search, nil, nil)

	_, err := svc.Search(context.Background(), "tenant1", "login", task.SearchOptions{Statuses: []task.Status{"blocked"}})
	require.ErrorIs(t, err, task.ErrInvalidStatus)
	search.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_SearchWrapsStoreError(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("database is locked")
	search := &mocks.TaskSearchRepository{}
	opts := task.SearchOptions{Statuses: []task.Status{task.StatusDone}}
	search.On("Search", ctx, "tenant1", "login", opts).Return(nil, storeErr)
	svc := task.NewService(&mocks.TaskRepository{}, search, nil, nil)

	_, err := svc.Search(ctx, "tenant1", "login", opts)
	require.ErrorIs(t, err, storeErr)
	require.Contains(t, err.Error(), "searching tasks")
	search.AssertExpectations(t)
}
