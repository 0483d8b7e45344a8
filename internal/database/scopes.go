package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker/internal/utils"
)

// Paginate orders by primary key and applies offset and limit, so pages are
// stable across requests.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC").Offset(params.Offset).Limit(params.Limit)
	}
}
