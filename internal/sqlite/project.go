package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/repository"
	"golang.org/x/text/cases"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectSelect = `
	SELECT
		p.id,
		p.tenant_id,
		p.title,
		p.description,
		p.status,
		p.created_at,
		p.updated_at,
		p.completed_at,
		COUNT(t.id) AS task_count,
		COALESCE(SUM(CASE WHEN t.status = 'done' THEN 1 ELSE 0 END), 0) AS completed_task_count
	FROM projects p
	LEFT JOIN tasks t ON t.project_id = p.id AND t.tenant_id = p.tenant_id
	WHERE p.tenant_id = ?
`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, title, description, status, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.Title,
		proj.Description,
		proj.Status,
		proj.CreatedAt,
		proj.UpdatedAt,
		proj.CompletedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	proj.TenantID = tenantID
	return nil
}

// Get retrieves a project by ID with its task counts
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := projectSelect + ` AND p.id = ? GROUP BY p.id`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns projects for a tenant matching opts, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	query := projectSelect
	args := []any{tenantID}

	if len(opts.Statuses) > 0 {
		query += " AND p.status IN (" + placeholders(len(opts.Statuses)) + ")"
		for _, st := range opts.Statuses {
			args = append(args, string(st))
		}
	}
	query += " GROUP BY p.id ORDER BY p.created_at DESC, p.id ASC"

	// SQLite only folds ASCII case, so text matching and the paging that
	// depends on it happen after the scan.
	q := foldCase(strings.TrimSpace(opts.Query))
	if q == "" {
		query, args = pageClause(query, args, opts.Limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if q != "" && !containsFolded(q, proj.Title, proj.Description) {
			continue
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	if q != "" {
		projects = page(projects, opts.Limit, opts.Offset)
	}
	return projects, nil
}

func foldCase(s string) string {
	return cases.Fold().String(s)
}

// containsFolded reports whether any field contains the already folded needle.
func containsFolded(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(foldCase(f), needle) {
			return true
		}
	}
	return false
}

// Update persists title, description, status and timestamps
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		UPDATE projects
		SET title = ?, description = ?, status = ?, updated_at = ?, completed_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Title,
		proj.Description,
		proj.Status,
		proj.UpdatedAt,
		proj.CompletedAt,
		proj.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return requireAffected(result)
}

// Delete removes a project; its tasks go with it through ON DELETE CASCADE
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var completedAt sql.NullTime
	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Title,
		&proj.Description,
		&proj.Status,
		&proj.CreatedAt,
		&proj.UpdatedAt,
		&completedAt,
		&proj.TaskCount,
		&proj.CompletedTaskCount,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		proj.CompletedAt = &completedAt.Time
	}
	return &proj, nil
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
