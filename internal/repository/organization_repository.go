package repository

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yukikurage/church-network-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrParentNotFound is returned when a branch parent does not exist.
	ErrParentNotFound = errors.New("organization repository: parent not found")
	// ErrDepthExceeded is returned when a branch would exceed MaxDepth.
	ErrDepthExceeded = errors.New("organization repository: hierarchy depth exceeded")
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateRoot creates a top-level organization
func (r *GormOrganizationRepository) CreateRoot(name string) (*models.Organization, error) {
	org := &models.Organization{Name: name}
	if err := r.db.Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// CreateBranch creates a child organization under parentID
func (r *GormOrganizationRepository) CreateBranch(parentID uint64, name string) (*models.Organization, error) {
	parent, err := r.FindByID(parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrParentNotFound, parentID)
		}
		return nil, err
	}

	depth, err := r.depthOf(parent)
	if err != nil {
		return nil, err
	}
	if depth+1 >= MaxDepth {
		return nil, fmt.Errorf("%w: organization %d cannot have branches", ErrDepthExceeded, parentID)
	}

	org := &models.Organization{Name: name, ParentID: &parent.ID}
	if err := r.db.Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByIDs loads organizations ordered by id
func (r *GormOrganizationRepository) FindByIDs(ids []uint64) ([]models.Organization, error) {
	orgs := []models.Organization{}
	if len(ids) == 0 {
		return orgs, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListBranches lists the direct children of parentID
func (r *GormOrganizationRepository) ListBranches(parentID uint64) ([]models.Organization, error) {
	branches := []models.Organization{}
	if err := r.db.Where("parent_id = ?", parentID).Order("id ASC").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// ResolveSubtree walks children level by level, stopping MaxDepth-1 levels
// below orgID.
func (r *GormOrganizationRepository) ResolveSubtree(orgID uint64) ([]uint64, error) {
	ids := []uint64{orgID}
	frontier := []uint64{orgID}

	for level := 1; level < MaxDepth && len(frontier) > 0; level++ {
		var children []uint64
		if err := r.db.Model(&models.Organization{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// IsDescendantOrSelf reports whether candidate lies in root's subtree
func (r *GormOrganizationRepository) IsDescendantOrSelf(candidate, root uint64) (bool, error) {
	ids, err := r.ResolveSubtree(root)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, candidate), nil
}

// RootOf returns the root organization of id's tree
func (r *GormOrganizationRepository) RootOf(id uint64) (*models.Organization, error) {
	org, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	for hops := 1; !org.IsRoot(); hops++ {
		if hops >= MaxDepth {
			return nil, fmt.Errorf("%w: organization %d", ErrDepthExceeded, id)
		}
		if org, err = r.FindByID(*org.ParentID); err != nil {
			return nil, err
		}
	}
	return org, nil
}

// depthOf returns 0 for a root, 1 for its branches and so on.
func (r *GormOrganizationRepository) depthOf(org *models.Organization) (int, error) {
	depth := 0
	for current := org; !current.IsRoot(); depth++ {
		if depth >= MaxDepth {
			return depth, nil
		}
		parent, err := r.FindByID(*current.ParentID)
		if err != nil {
			return 0, err
		}
		current = parent
	}
	return depth, nil
}
