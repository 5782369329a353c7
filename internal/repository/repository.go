package repository

import (
	"github.com/shopspring/decimal"
	"github.com/yukikurage/church-network-api/internal/models"
)

// MaxDepth is the number of tiers the hierarchy allows: roots and their
// branches. Raising it lets branches own sub-branches without touching callers.
const MaxDepth = 2

// OrganizationRepository is the hierarchy store. It creates and looks up
// organizations; deletion is not exposed.
type OrganizationRepository interface {
	// CreateRoot creates a top-level organization
	CreateRoot(name string) (*models.Organization, error)

	// CreateBranch creates a child of parentID. The parent must exist and
	// have room below it within MaxDepth.
	CreateBranch(parentID uint64, name string) (*models.Organization, error)

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByIDs loads organizations ordered by id
	FindByIDs(ids []uint64) ([]models.Organization, error)

	// ListBranches lists the direct children of parentID ordered by id
	ListBranches(parentID uint64) ([]models.Organization, error)

	// ResolveSubtree returns orgID and its descendants down to MaxDepth tiers
	ResolveSubtree(orgID uint64) ([]uint64, error)

	// IsDescendantOrSelf reports whether candidate lies in root's subtree
	IsDescendantOrSelf(candidate, root uint64) (bool, error)

	// RootOf returns the root organization of id's tree
	RootOf(id uint64) (*models.Organization, error)
}

// UserRepository defines the interface for principal data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Count counts all principals
	Count() (int64, error)
}

// ListFilter holds filtering options for listing scoped records
type ListFilter struct {
	OrganizationIDs []uint64
	// Match adds equality conditions on secondary columns.
	Match    map[string]any
	Page     int
	PageSize int
}

// ScopedRepository is the data access contract shared by all records that
// belong to one organization.
type ScopedRepository[T any, PT models.ScopedPtr[T]] interface {
	// Create inserts a record
	Create(record PT) error

	// FindByID finds a record by ID
	FindByID(id uint64) (PT, error)

	// List returns records owned by the filtered organizations ordered by id
	List(filter ListFilter) ([]T, error)

	// Count counts records owned by the given organizations
	Count(orgIDs []uint64) (int64, error)

	// Sum totals a numeric column over records owned by the given
	// organizations. No rows sum to zero.
	Sum(column string, orgIDs []uint64) (decimal.Decimal, error)

	// Update saves a record
	Update(record PT) error

	// Delete hard deletes a record
	Delete(id uint64) error
}

// MessageRepository defines the interface for inter-organization messages
type MessageRepository interface {
	// Create stores a message
	Create(msg *models.Message) error

	// ListForOrganization lists messages sent or received by orgID ordered by id
	ListForOrganization(orgID uint64) ([]models.Message, error)
}
