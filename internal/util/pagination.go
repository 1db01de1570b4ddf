package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ClampPage normalizes raw pagination values: page is 1-based (default 1),
// pageSize defaults to 10 and is clamped to [1, 100].
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageParams reads page/pageSize query params and clamps them.
func PageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	return ClampPage(page, pageSize)
}

// Offset converts clamped page/pageSize into a query offset.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
