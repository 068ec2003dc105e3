package models

// Page size limits for list endpoints
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 50
)

// PageRequest is a 1-based page number with a page size
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the number of records to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the summary returned next to every paged list
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(total/limit)
func NewPagination(req PageRequest, total int) Pagination {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
