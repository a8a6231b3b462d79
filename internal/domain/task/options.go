package task

// ListOptions filters tasks within a project.
type ListOptions struct {
	AssigneeID *string
	Statuses   []Status
	Limit      int
	Offset     int
}

// SearchOptions filters full-text task search.
type SearchOptions struct {
	ProjectID string
	Statuses  []Status
	Limit     int
	Offset    int
}
