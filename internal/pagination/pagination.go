package pagination

import (
	"math"

	"gorm.io/gorm"
)

// MaxPageSize caps page_size on every paged list.
const MaxPageSize = 100

// PageRequest holds pagination parameters parsed from query strings.
// A zero PageSize means the list is returned whole.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// IsSet reports whether the caller asked for a page.
func (p PageRequest) IsSet() bool {
	return p.PageSize > 0
}

// Defaults fills in the page number when only page_size was given.
func (p *PageRequest) Defaults() {
	if p.PageSize > 0 && p.Page == 0 {
		p.Page = 1
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageInfo describes the page returned alongside a list.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageInfo builds page metadata, or nil when the request was unpaged.
func NewPageInfo(req PageRequest, totalItems int64) *PageInfo {
	if !req.IsSet() {
		return nil
	}
	req.Defaults()
	return &PageInfo{
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: int(math.Ceil(float64(totalItems) / float64(req.PageSize))),
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given
// page request. Unpaged requests leave the query untouched.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !req.IsSet() {
			return db
		}
		req.Defaults()
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
