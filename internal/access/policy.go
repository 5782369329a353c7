package access

import (
	"fmt"
	"slices"

	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
)

// Hierarchy is the read side of the hierarchy store the evaluator depends on.
type Hierarchy interface {
	// ResolveSubtree returns orgID and every organization beneath it,
	// sorted ascending.
	ResolveSubtree(orgID uint64) ([]uint64, error)
}

// Scope is the set of organization ids a read may touch.
type Scope struct {
	OrganizationIDs []uint64
}

// Contains reports whether orgID is visible in the scope.
func (s Scope) Contains(orgID uint64) bool {
	return slices.Contains(s.OrganizationIDs, orgID)
}

// Evaluator is the single authority on read scope, write targets and
// single-record ownership.
type Evaluator struct {
	hierarchy Hierarchy
}

// NewEvaluator creates an Evaluator over the given hierarchy.
func NewEvaluator(h Hierarchy) *Evaluator {
	return &Evaluator{hierarchy: h}
}

// ReadScope computes the organizations the caller may read. A root admin sees
// its subtree, narrowed to explicitOrgID when given; an explicit id outside the
// subtree is forbidden. A branch admin always sees exactly its own node and
// any explicit id is ignored.
func (e *Evaluator) ReadScope(id Identity, explicitOrgID *uint64) (Scope, error) {
	if !id.Valid() {
		return Scope{}, apierrors.ErrMissingIdentity
	}

	switch id.Role() {
	case models.RoleBranchAdmin:
		return Scope{OrganizationIDs: []uint64{id.OrganizationID()}}, nil
	case models.RoleRootAdmin:
		subtree, err := e.hierarchy.ResolveSubtree(id.OrganizationID())
		if err != nil {
			return Scope{}, err
		}
		if explicitOrgID == nil {
			return Scope{OrganizationIDs: subtree}, nil
		}
		if !slices.Contains(subtree, *explicitOrgID) {
			return Scope{}, fmt.Errorf("%w: organization %d is outside your hierarchy", apierrors.ErrForbidden, *explicitOrgID)
		}
		return Scope{OrganizationIDs: []uint64{*explicitOrgID}}, nil
	default:
		return Scope{}, apierrors.ErrMissingIdentity
	}
}

// WriteTarget resolves the organization a create will persist under.
// Branch admins are silently pinned to their own node. Root admins may target
// themselves or one of their direct branches.
func (e *Evaluator) WriteTarget(id Identity, requestedOrgID *uint64) (uint64, error) {
	if !id.Valid() {
		return 0, apierrors.ErrMissingIdentity
	}

	home := id.OrganizationID()
	switch id.Role() {
	case models.RoleBranchAdmin:
		return home, nil
	case models.RoleRootAdmin:
		if requestedOrgID == nil || *requestedOrgID == home {
			return home, nil
		}
		subtree, err := e.hierarchy.ResolveSubtree(home)
		if err != nil {
			return 0, err
		}
		if !slices.Contains(subtree, *requestedOrgID) {
			return 0, fmt.Errorf("%w: invalid target organization %d", apierrors.ErrForbidden, *requestedOrgID)
		}
		return *requestedOrgID, nil
	default:
		return 0, apierrors.ErrMissingIdentity
	}
}

// CanManageSingle reports whether the caller may update or delete a record
// owned by resourceOrgID.
func (e *Evaluator) CanManageSingle(id Identity, resourceOrgID uint64) (bool, error) {
	if !id.Valid() {
		return false, apierrors.ErrMissingIdentity
	}

	switch id.Role() {
	case models.RoleBranchAdmin:
		return resourceOrgID == id.OrganizationID(), nil
	case models.RoleRootAdmin:
		subtree, err := e.hierarchy.ResolveSubtree(id.OrganizationID())
		if err != nil {
			return false, err
		}
		return slices.Contains(subtree, resourceOrgID), nil
	default:
		return false, nil
	}
}

// RequireRole rejects callers that do not hold role.
func (e *Evaluator) RequireRole(id Identity, role models.Role) error {
	if !id.Valid() {
		return apierrors.ErrMissingIdentity
	}
	if id.Role() != role {
		return fmt.Errorf("%w: requires role %s", apierrors.ErrForbidden, role)
	}
	return nil
}
