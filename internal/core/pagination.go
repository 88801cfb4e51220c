package core

// PageCount returns how many pages of size pageSize are needed for total rows.
func PageCount(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// Offset returns the row offset of a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// SearchPattern wraps a user query for a bound substring match.
func SearchPattern(query string) string {
	return "%" + query + "%"
}
