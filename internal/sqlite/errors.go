package sqlite

import "strings"

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// pageClause appends LIMIT/OFFSET. SQLite only accepts OFFSET after a LIMIT,
// so an offset without a limit uses LIMIT -1.
func pageClause(query string, args []any, limit, offset int) (string, []any) {
	switch {
	case limit > 0:
		query += " LIMIT ?"
		args = append(args, limit)
	case offset > 0:
		query += " LIMIT -1"
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}
	return query, args
}

// page applies limit and offset to rows already loaded into memory.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
