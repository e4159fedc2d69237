package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// pageParams reads the zero-based page and size query parameters.
func pageParams(c *gin.Context, defaultSize int) (page, size int) {
	page = 0
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p >= 0 {
		page = p
	}
	size = defaultSize
	if s, err := strconv.Atoi(c.Query("size")); err == nil && s > 0 {
		size = s
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// Page is a paginated list response.
type Page struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int64       `json:"total"`
}
