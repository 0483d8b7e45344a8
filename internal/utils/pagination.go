package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Offset int
	Limit  int
}

// NewPaginationParams clamps offset and limit into the accepted range.
// A negative offset becomes 0 and a limit outside 1..MaxPageSize falls back
// to DefaultPageSize.
func NewPaginationParams(offset, limit int) PaginationParams {
	if offset < 0 {
		offset = constants.DefaultOffset
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Offset: offset,
		Limit:  limit,
	}
}

// GetPaginationParams extracts and validates the skip and limit query parameters
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", strconv.Itoa(constants.DefaultOffset)))
	if err != nil {
		skip = constants.DefaultOffset
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil {
		limit = constants.DefaultPageSize
	}

	return NewPaginationParams(skip, limit)
}
