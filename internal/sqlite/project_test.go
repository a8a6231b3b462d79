package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{
		ID:          "p1",
		Title:       "Website redesign",
		Description: "New landing page",
		Status:      project.StatusActive,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
	require.NoError(t, repo.Create(ctx, "tenant1", proj))
	require.Equal(t, "tenant1", proj.TenantID)

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "Website redesign", retrieved.Title)
	require.Equal(t, "New landing page", retrieved.Description)
	require.Equal(t, project.StatusActive, retrieved.Status)
	require.Nil(t, retrieved.CompletedAt)
	require.Zero(t, retrieved.TaskCount)
	require.Zero(t, retrieved.CompletedTaskCount)
}

func TestProjectRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	seedProject(t, db, "tenant1", "p1", "First", 0)

	err := repo.Create(context.Background(), "tenant1", &project.Project{
		ID: "p1", Title: "Again", Status: project.StatusActive,
	})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestProjectRepository_SameIDInTwoTenants(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "tenant1", "roadmap", "Ours", 0)
	seedProject(t, db, "tenant2", "roadmap", "Theirs", time.Minute)
	seedTask(t, db, "tenant1", "roadmap", "t1", "Plan", task.StatusDone, "alice", 0)

	mine, err := repo.Get(ctx, "tenant1", "roadmap")
	require.NoError(t, err)
	require.Equal(t, "Ours", mine.Title)
	require.Equal(t, 1, mine.TaskCount)

	theirs, err := repo.Get(ctx, "tenant2", "roadmap")
	require.NoError(t, err)
	require.Equal(t, "Theirs", theirs.Title)
	require.Equal(t, 0, theirs.TaskCount)

	require.NoError(t, repo.Delete(ctx, "tenant2", "roadmap"))
	_, err = NewTaskRepository(db).Get(ctx, "tenant1", "t1")
	require.NoError(t, err, "deleting another tenant's project keeps our tasks")

	require.NoError(t, repo.Delete(ctx, "tenant1", "roadmap"))
	_, err = NewTaskRepository(db).Get(ctx, "tenant1", "t1")
	require.ErrorIs(t, err, repository.ErrNotFound, "tasks cascade with their project")
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	seedProject(t, db, "tenant1", "p1", "Mine", 0)

	_, err := repo.Get(context.Background(), "tenant1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Get(context.Background(), "tenant2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound, "projects are tenant scoped")
}

func TestProjectRepository_TaskCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "tenant1", "p1", "Counted", 0)
	seedTask(t, db, "tenant1", "p1", "t1", "a", task.StatusDone, "alice", 0)
	seedTask(t, db, "tenant1", "p1", "t2", "b", task.StatusTodo, "bob", time.Second)
	seedTask(t, db, "tenant1", "p1", "t3", "c", task.StatusDone, "", 2*time.Second)

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, 3, retrieved.TaskCount)
	require.Equal(t, 2, retrieved.CompletedTaskCount)

	list, err := repo.List(ctx, "tenant1", project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 3, list[0].TaskCount)
	require.Equal(t, 2, list[0].CompletedTaskCount)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "tenant1", "p1", "Alpha launch", 0)
	seedProject(t, db, "tenant1", "p2", "Beta migration", time.Minute)
	seedProject(t, db, "tenant1", "p3", "Gamma ALPHA review", 2*time.Minute)
	seedProject(t, db, "tenant2", "p4", "Other tenant alpha", 3*time.Minute)

	completedAt := baseTime.Add(time.Hour)
	p2, err := repo.Get(ctx, "tenant1", "p2")
	require.NoError(t, err)
	p2.Status = project.StatusCompleted
	p2.CompletedAt = &completedAt
	require.NoError(t, repo.Update(ctx, "tenant1", p2))

	t.Run("newest first", func(t *testing.T) {
		list, err := repo.List(ctx, "tenant1", project.ListOptions{})
		require.NoError(t, err)
		require.Equal(t, []string{"p3", "p2", "p1"}, projectIDs(list))
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := repo.List(ctx, "tenant1", project.ListOptions{Statuses: []project.Status{project.StatusCompleted}})
		require.NoError(t, err)
		require.Equal(t, []string{"p2"}, projectIDs(list))
		require.NotNil(t, list[0].CompletedAt)
	})

	t.Run("case-insensitive query", func(t *testing.T) {
		list, err := repo.List(ctx, "tenant1", project.ListOptions{Query: "alpha"})
		require.NoError(t, err)
		require.Equal(t, []string{"p3", "p1"}, projectIDs(list))
	})

	t.Run("paging", func(t *testing.T) {
		list, err := repo.List(ctx, "tenant1", project.ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Equal(t, []string{"p2"}, projectIDs(list))

		list, err = repo.List(ctx, "tenant1", project.ListOptions{Offset: 2})
		require.NoError(t, err)
		require.Equal(t, []string{"p1"}, projectIDs(list))
	})

	t.Run("empty tenant", func(t *testing.T) {
		list, err := repo.List(ctx, "nobody", project.ListOptions{})
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}

func TestProjectRepository_ListQueryMatchesLiterally(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "tenant1", "p1", "Release 500 build", 0)
	seedProject(t, db, "tenant1", "p2", "Fix_me later", time.Minute)
	seedProject(t, db, "tenant1", "p3", "Fixme now", 2*time.Minute)
	seedProject(t, db, "tenant1", "p4", "École migration", 3*time.Minute)
	seedProject(t, db, "tenant1", "p5", "Budget 50% cut", 4*time.Minute)

	tests := []struct {
		query string
		want  []string
	}{
		{"50%", []string{"p5"}},
		{"x_m", []string{"p2"}},
		{"école", []string{"p4"}},
		{"ÉCOLE", []string{"p4"}},
		{"FIX", []string{"p3", "p2"}},
		{"%", []string{"p5"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			list, err := repo.List(ctx, "tenant1", project.ListOptions{Query: tt.query})
			require.NoError(t, err)
			require.Equal(t, tt.want, projectIDs(list))
		})
	}

	t.Run("paging applies after matching", func(t *testing.T) {
		list, err := repo.List(ctx, "tenant1", project.ListOptions{Query: "fix", Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Equal(t, []string{"p2"}, projectIDs(list))

		list, err = repo.List(ctx, "tenant1", project.ListOptions{Query: "fix", Offset: 5})
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}

func TestProjectRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := seedProject(t, db, "tenant1", "p1", "Before", 0)
	proj.Title = "After"
	proj.Status = project.StatusOnHold
	proj.UpdatedAt = baseTime.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, "tenant1", proj))

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "After", retrieved.Title)
	require.Equal(t, project.StatusOnHold, retrieved.Status)

	proj.ID = "missing"
	require.ErrorIs(t, repo.Update(ctx, "tenant1", proj), repository.ErrNotFound)
}

func TestProjectRepository_DeleteCascadesTasks(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "tenant1", "p1", "Doomed", 0)
	seedTask(t, db, "tenant1", "p1", "t1", "a", task.StatusTodo, "", 0)

	require.NoError(t, repo.Delete(ctx, "tenant1", "p1"))
	_, err := repo.Get(ctx, "tenant1", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = NewTaskRepository(db).Get(ctx, "tenant1", "t1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "tenant1", "p1"), repository.ErrNotFound)
}

func projectIDs(projects []project.Project) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}
