// internal/pkg/pagination/pagination.go
package pagination

// Params holds the page/limit query parameters of a list request
type Params struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Normalize clamps page to >= 1 and limit to [1, maxLimit], using defaultLimit when unset
func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// New calculates pagination info for a normalized request and a total row count
func New(p Params, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
