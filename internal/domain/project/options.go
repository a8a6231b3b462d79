package project

// ListOptions filters project listings. An empty Statuses slice matches every
// status; Query is a case-insensitive substring of title or description.
type ListOptions struct {
	Statuses []Status
	Query    string
	Limit    int
	Offset   int
}
