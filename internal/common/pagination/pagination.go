// Package pagination implements the page/offset arithmetic shared by every
// paginated listing.
package pagination

// DefaultPageSize is used by admin order and user listings.
const DefaultPageSize = 10

// Page is a window over a result set. Page numbers start at zero.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	Total   int64 `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// Offset returns the first row index of page. Negative pages clamp to zero.
func Offset(page, size int) int {
	if page < 0 {
		page = 0
	}
	return page * size
}

// New assembles a page from an already fetched window.
func New[T any](items []T, page, size int, total int64) Page[T] {
	if page < 0 {
		page = 0
	}
	if items == nil {
		items = []T{}
	}
	offset := Offset(page, size)
	return Page[T]{
		Items:   items,
		Page:    page,
		Size:    size,
		Total:   total,
		HasPrev: page > 0,
		HasNext: int64(offset+size) < total,
	}
}
