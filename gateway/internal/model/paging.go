package model

const DefaultPageSize = 10

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

type List[T any] struct {
	Paging `json:",inline"`
	Items  []T `json:"items"`
}

// Paginate slices items in memory. Pages are 1-based; out of range pages
// are clamped to the last page.
func Paginate[T any](items []T, page, size int) List[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	from := (page - 1) * size
	to := from + size
	if to > total {
		to = total
	}
	out := make([]T, 0, to-from)
	out = append(out, items[from:to]...)
	return List[T]{
		Paging: Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
			TotalPages:    pages,
		},
		Items: out,
	}
}

// Filter keeps the items matching keep.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
