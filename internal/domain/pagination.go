package domain

// PaginatedResult carries one page of items together with paging metadata.
type PaginatedResult[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// NewPaginatedResult creates a PaginatedResult.
func NewPaginatedResult[T any](items []T, total int64, page, limit int) PaginatedResult[T] {
	return PaginatedResult[T]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}

// Pages returns the number of pages needed to hold Total items.
func (r PaginatedResult[T]) Pages() int64 {
	if r.Limit <= 0 {
		return 1
	}
	pages := r.Total / int64(r.Limit)
	if r.Total%int64(r.Limit) != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}
