package internal

import "fmt"

// PageSizes are the page sizes offered to users.
var PageSizes = []int{5, 10, 20, 50}

// Pagination describes where a page sits in its collection.
type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

// PaginationOf extracts the pagination of a page.
func PaginationOf[T any](p Page[T]) Pagination {
	return Pagination{Page: p.Page, PageSize: p.PageSize, TotalCount: p.TotalCount, TotalPages: p.TotalPages}
}

// Visible reports whether pagination controls are worth showing.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

// Summary renders "Showing X to Y of N posts".
func (p Pagination) Summary() string {
	if p.TotalCount == 0 {
		return "No posts"
	}
	start := (p.Page-1)*p.PageSize + 1
	end := min(p.Page*p.PageSize, p.TotalCount)
	return fmt.Sprintf("Showing %d to %d of %d posts", start, end, p.TotalCount)
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }

func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Goto returns params for page n, or false when n is out of range.
func (p Pagination) Goto(n int) (PostsParams, bool) {
	if n < 1 || n > p.TotalPages {
		return PostsParams{}, false
	}
	return PostsParams{Page: n, PageSize: p.PageSize}, true
}

// WithPageSize switches page size and goes back to the first page.
func (p PostsParams) WithPageSize(size int) PostsParams {
	return PostsParams{Page: 1, PageSize: size}
}

// DefaultPageSize is the page size used when a location does not name one.
const DefaultPageSize = 10
