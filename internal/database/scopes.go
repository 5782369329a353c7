package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/church-network-api/internal/utils"
)

// Paginate applies pagination to a GORM query. Zero params leave it unbounded.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ByOrganizations restricts a query on a scoped table to the given owners.
func ByOrganizations(ids []uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id IN ?", ids)
	}
}
