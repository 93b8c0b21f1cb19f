package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultPageSize is used when the limit parameter is absent or not one of
// the allowed sizes.
const DefaultPageSize = 25

// allowedPageSizes is the fixed set of page sizes the API accepts.
var allowedPageSizes = map[int]struct{}{10: {}, 25: {}, 50: {}, 100: {}}

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. Pages are 1-indexed.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))

	if page < 1 {
		page = 1
	}
	if _, ok := allowedPageSizes[limit]; !ok {
		limit = DefaultPageSize
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}
