package repository

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/church-network-api/internal/database"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormScopedRepository is a GORM implementation of ScopedRepository
type GormScopedRepository[T any, PT models.ScopedPtr[T]] struct {
	db *gorm.DB
}

// NewScopedRepository creates a ScopedRepository for record type T
func NewScopedRepository[T any, PT models.ScopedPtr[T]](db *gorm.DB) ScopedRepository[T, PT] {
	return &GormScopedRepository[T, PT]{db: db}
}

// Create inserts a record
func (r *GormScopedRepository[T, PT]) Create(record PT) error {
	return r.db.Create(record).Error
}

// FindByID finds a record by ID
func (r *GormScopedRepository[T, PT]) FindByID(id uint64) (PT, error) {
	var record T
	if err := r.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return PT(&record), nil
}

// List retrieves records with filtering and optional pagination
func (r *GormScopedRepository[T, PT]) List(filter ListFilter) ([]T, error) {
	records := []T{}

	if len(filter.OrganizationIDs) == 0 {
		return records, nil
	}

	query := r.db.Model(new(T)).Scopes(database.ByOrganizations(filter.OrganizationIDs))

	columns := make([]string, 0, len(filter.Match))
	for column := range filter.Match {
		columns = append(columns, column)
	}
	slices.Sort(columns)
	for _, column := range columns {
		query = query.Where(clause.Eq{Column: clause.Column{Name: column}, Value: filter.Match[column]})
	}

	query = query.Order("id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts records owned by the given organizations
func (r *GormScopedRepository[T, PT]) Count(orgIDs []uint64) (int64, error) {
	var count int64
	if len(orgIDs) == 0 {
		return 0, nil
	}
	err := r.db.Model(new(T)).Scopes(database.ByOrganizations(orgIDs)).Count(&count).Error
	return count, err
}

// Sum totals column over records owned by the given organizations.
// Values are added as decimals in Go so the total stays exact on drivers
// that return SQL aggregates as floats.
func (r *GormScopedRepository[T, PT]) Sum(column string, orgIDs []uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(orgIDs) == 0 {
		return total, nil
	}

	var values []decimal.Decimal
	err := r.db.Model(new(T)).
		Scopes(database.ByOrganizations(orgIDs)).
		Pluck(column, &values).Error
	if err != nil {
		return decimal.Zero, err
	}
	for _, v := range values {
		total = total.Add(v)
	}
	return total, nil
}

// Update saves a record
func (r *GormScopedRepository[T, PT]) Update(record PT) error {
	return r.db.Save(record).Error
}

// Delete hard deletes a record
func (r *GormScopedRepository[T, PT]) Delete(id uint64) error {
	result := r.db.Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearProjectReferences nulls the project reference on expenses pointing at projectID.
func ClearProjectReferences(db *gorm.DB, projectID uint64) error {
	return db.Model(&models.Expense{}).
		Where("project_id = ?", projectID).
		Update("project_id", nil).Error
}
