package progress_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/tasktrack/internal/domain/progress"
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/stretchr/testify/require"
)

type projectListerStub struct {
	listFn func(context.Context, string, project.ListOptions) ([]project.Project, error)
}

func (p projectListerStub) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	return p.listFn(ctx, tenantID, opts)
}

type taskSourceStub struct {
	byUser map[string]map[string][]task.Task
	errs   map[string]error
}

func (s taskSourceStub) UserTasksFetcher(_, userID string) func(context.Context, string) ([]task.Task, error) {
	return func(_ context.Context, projectID string) ([]task.Task, error) {
		if err := s.errs[projectID]; err != nil {
			return nil, err
		}
		return s.byUser[userID][projectID], nil
	}
}

func TestService_UserOverview(t *testing.T) {
	ctx := context.Background()
	var gotOpts project.ListOptions

	svc := progress.NewService(
		projectListerStub{listFn: func(_ context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
			require.Equal(t, "tenant1", tenantID)
			gotOpts = opts
			return []project.Project{{ID: "1", Title: "Site"}, {ID: "2", Title: "App"}, {ID: "3", Title: "Ops"}}, nil
		}},
		taskSourceStub{
			byUser: map[string]map[string][]task.Task{
				"alice": {
					"1": tasksWithDone("1", 3, 2),
					"3": tasksWithDone("3", 2, 2),
				},
			},
			errs: map[string]error{"3": errors.New("timeout")},
		},
		nil,
		nil,
	)

	opts := project.ListOptions{Statuses: []project.Status{project.StatusActive}}
	overview, err := svc.UserOverview(ctx, "tenant1", " alice ", opts)
	require.NoError(t, err)
	require.Equal(t, opts, gotOpts)
	require.Equal(t, "alice", overview.UserID)
	require.Len(t, overview.Projects, 1)
	require.Equal(t, "1", overview.Projects[0].ID)
	require.Equal(t, 67, overview.Projects[0].CompletionRate)
	require.Equal(t, progress.Summary{TotalProjects: 1, TotalTasks: 3, TotalCompleted: 2, OverallRate: 67}, overview.Summary)
}

func TestService_UserOverviewEmpty(t *testing.T) {
	svc := progress.NewService(
		projectListerStub{listFn: func(context.Context, string, project.ListOptions) ([]project.Project, error) {
			return nil, nil
		}},
		taskSourceStub{},
		progress.NewAggregator(4, nil),
		nil,
	)

	overview, err := svc.UserOverview(context.Background(), "tenant1", "bob", project.ListOptions{})
	require.NoError(t, err)
	require.NotNil(t, overview.Projects)
	require.Empty(t, overview.Projects)
	require.Equal(t, progress.Summary{}, overview.Summary)
}

func TestService_UserOverviewListFailure(t *testing.T) {
	listErr := errors.New("db closed")
	svc := progress.NewService(
		projectListerStub{listFn: func(context.Context, string, project.ListOptions) ([]project.Project, error) {
			return nil, listErr
		}},
		taskSourceStub{},
		nil,
		nil,
	)

	_, err := svc.UserOverview(context.Background(), "tenant1", "bob", project.ListOptions{})
	require.ErrorIs(t, err, listErr)
}

func TestService_UserOverviewRequiresUser(t *testing.T) {
	svc := progress.NewService(projectListerStub{}, taskSourceStub{}, nil, nil)
	_, err := svc.UserOverview(context.Background(), "tenant1", "  ", project.ListOptions{})
	require.ErrorIs(t, err, progress.ErrInvalidInput)
}
