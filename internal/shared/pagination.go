package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Window returns the half-open slice bounds for the page over n items.
func (p Pagination) Window(n int) (int, int) {
	start := (p.Page - 1) * p.PerPage
	if start > n {
		start = n
	}
	end := start + p.PerPage
	if end > n {
		end = n
	}
	return start, end
}
