package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/tasktrack/internal/domain/task"
	"github.com/ganot/tasktrack/internal/repository"
)

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, tenant_id, project_id, title, description, status, assignee_id, created_at, updated_at, completed_at`

// Create inserts a task. The project must exist for the same tenant.
func (r *TaskRepository) Create(ctx context.Context, tenantID string, t *task.Task) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ? AND tenant_id = ?`,
		t.ProjectID, tenantID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if exists == 0 {
		return repository.ErrForeignKeyViolation
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		tenantID,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Status,
		t.AssigneeID,
		t.CreatedAt,
		t.UpdatedAt,
		t.CompletedAt,
	)
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.TenantID = tenantID
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND tenant_id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListByProject returns the project's tasks matching opts, oldest first
func (r *TaskRepository) ListByProject(ctx context.Context, tenantID, projectID string, opts task.ListOptions) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE tenant_id = ? AND project_id = ?`
	args := []any{tenantID, projectID}

	if opts.AssigneeID != nil {
		query += " AND assignee_id = ?"
		args = append(args, *opts.AssigneeID)
	}
	if len(opts.Statuses) > 0 {
		query += " AND status IN (" + placeholders(len(opts.Statuses)) + ")"
		for _, st := range opts.Statuses {
			args = append(args, string(st))
		}
	}

	query += " ORDER BY created_at ASC, id ASC"
	query, args = pageClause(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Update persists a task's mutable fields
func (r *TaskRepository) Update(ctx context.Context, tenantID string, t *task.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, assignee_id = ?, updated_at = ?, completed_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.AssigneeID,
		t.UpdatedAt,
		t.CompletedAt,
		t.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var assignee sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.TenantID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&assignee,
		&t.CreatedAt,
		&t.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssigneeID = &assignee.String
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}
