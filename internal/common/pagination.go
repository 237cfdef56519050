// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination describes one page of an offset-paged collection.
type Pagination struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func NewPagination(totalItems int64, page, pageSize int) *Pagination {
	page = positiveOr(page, DefaultPage)
	pageSize = positiveOr(pageSize, DefaultPageSize)
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return &Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// GetPaginationParams reads page and page_size, clamping page_size to MaxPageSize.
func GetPaginationParams(c *gin.Context) (page, pageSize int) {
	page = positiveOr(queryInt(c, "page"), DefaultPage)
	pageSize = positiveOr(queryInt(c, "page_size"), DefaultPageSize)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// GetLimitParam parses ?limit with a default and a ceiling. A non-positive max disables the ceiling.
func GetLimitParam(c *gin.Context, def, max int) int {
	limit := positiveOr(queryInt(c, "limit"), def)
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

// Offset returns the row offset for a 1-based page.
func Offset(page, pageSize int) int {
	if page <= 0 {
		return 0
	}
	return (page - 1) * pageSize
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func positiveOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
