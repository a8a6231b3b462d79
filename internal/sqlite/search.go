package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/ganot/tasktrack/internal/domain/task"
)

// SearchRepository implements task.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over task titles and descriptions.
// Results are ordered by bm25 relevance, best first.
func (r *SearchRepository) Search(ctx context.Context, tenantID, query string, opts task.SearchOptions) ([]task.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return []task.SearchResult{}, nil
	}

	baseQuery := `
		SELECT
			t.id, t.tenant_id, t.project_id, t.title, t.description, t.status,
			t.assignee_id, t.created_at, t.updated_at, t.completed_at,
			bm25(tasks_fts) AS rank,
			snippet(tasks_fts, -1, '[', ']', '...', 12) AS snippet
		FROM tasks_fts
		JOIN tasks t ON t.rowid = tasks_fts.rowid
		WHERE tasks_fts MATCH ? AND t.tenant_id = ?
	`
	args := []any{match, tenantID}

	if opts.ProjectID != "" {
		baseQuery += " AND t.project_id = ?"
		args = append(args, opts.ProjectID)
	}
	if len(opts.Statuses) > 0 {
		baseQuery += " AND t.status IN (" + placeholders(len(opts.Statuses)) + ")"
		for _, st := range opts.Statuses {
			args = append(args, string(st))
		}
	}

	baseQuery += " ORDER BY rank, t.id"
	baseQuery, args = pageClause(baseQuery, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer rows.Close()

	results := []task.SearchResult{}
	for rows.Next() {
		var result task.SearchResult
		var assignee sql.NullString
		var completedAt sql.NullTime
		err := rows.Scan(
			&result.Task.ID,
			&result.Task.TenantID,
			&result.Task.ProjectID,
			&result.Task.Title,
			&result.Task.Description,
			&result.Task.Status,
			&assignee,
			&result.Task.CreatedAt,
			&result.Task.UpdatedAt,
			&completedAt,
			&result.Rank,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		if assignee.Valid {
			result.Task.AssigneeID = &assignee.String
		}
		if completedAt.Valid {
			result.Task.CompletedAt = &completedAt.Time
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}

// ftsQuery turns free text into an FTS5 query of quoted terms so that
// punctuation in user input is never parsed as query syntax. The last term
// gets a prefix match.
func ftsQuery(input string) string {
	fields := strings.Fields(input)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if !strings.ContainsFunc(f, isWordRune) {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	if len(terms) == 0 {
		return ""
	}
	terms[len(terms)-1] += "*"
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
