package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *Task) error
	Get(ctx context.Context, tenantID, id string) (*Task, error)
	ListByProject(ctx context.Context, tenantID, projectID string, opts ListOptions) ([]Task, error)
	Update(ctx context.Context, tenantID string, t *Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

// SearchRepository performs full-text search over tasks.
type SearchRepository interface {
	Search(ctx context.Context, tenantID, query string, opts SearchOptions) ([]SearchResult, error)
}
