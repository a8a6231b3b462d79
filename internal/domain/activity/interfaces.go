package activity

import "context"

// Repository persists and lists activity log entries.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
