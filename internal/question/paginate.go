package question

// Paginate returns the 1-based page of items with the given page size.
// Pages before the first or past the end come back empty, never nil.
func Paginate[T any](items []T, page, size int) []T {
	// the second bound keeps (page-1)*size from overflowing
	if page < 1 || size <= 0 || page > len(items)/size+1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
