package model

// Page is one page of a paginated listing. Page numbers start at 1.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
}

func NewPage[T any](items []T, page, pageSize int, totalCount int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}
}

// Offset is the number of items preceding the given page.
func Offset(page, pageSize int) int64 {
	if page < 1 {
		return 0
	}
	return int64(page-1) * int64(pageSize)
}
