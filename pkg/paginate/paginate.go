// Package paginate provides the pure page arithmetic used by the viewer:
// given an item count, a page size and a requested page index it yields a
// clamped page index and the half-open range of that page. It clamps rather
// than errors, so callers can feed it stale or out-of-range indices (a
// bookmark recorded under a larger page size, a list that shrank) and always
// get a usable page back.
package paginate

// Page describes one clamped page over a sequence of items.
type Page struct {
	// TotalPages is ceil(items / pageSize); 0 for an empty sequence.
	TotalPages int
	// SafeIndex is the requested index clamped into [0, TotalPages-1],
	// or 0 when there are no pages.
	SafeIndex int
	// Start and End bound the page as a half-open range [Start, End).
	Start int
	End   int
}

// Paginate computes the page covering requestedIndex over count items.
// pageSize values below 1 are treated as 1.
func Paginate(count, pageSize, requestedIndex int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	if count <= 0 {
		return Page{}
	}

	totalPages := (count + pageSize - 1) / pageSize
	safe := requestedIndex
	if safe < 0 {
		safe = 0
	}
	if safe > totalPages-1 {
		safe = totalPages - 1
	}

	start := safe * pageSize
	end := start + pageSize
	if end > count {
		end = count
	}
	return Page{
		TotalPages: totalPages,
		SafeIndex:  safe,
		Start:      start,
		End:        end,
	}
}

// Slice returns the page of items described by Paginate for the same
// arguments.
func Slice[T any](items []T, pageSize, requestedIndex int) ([]T, Page) {
	p := Paginate(len(items), pageSize, requestedIndex)
	return items[p.Start:p.End], p
}
