package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/church-network-api/internal/access"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

// hierarchy is a root with two branches plus an unrelated root, with an
// identity for each administrator.
type hierarchy struct {
	root, branchB, branchC, other *models.Organization

	rootAdmin, branchBAdmin, branchCAdmin, otherAdmin access.Identity
}

func newHierarchy(t *testing.T, db *gorm.DB) *hierarchy {
	t.Helper()
	orgs := repository.NewOrganizationRepository(db)

	root, err := orgs.CreateRoot("Grace Central")
	require.NoError(t, err)
	b, err := orgs.CreateBranch(root.ID, "Grace North")
	require.NoError(t, err)
	c, err := orgs.CreateBranch(root.ID, "Grace South")
	require.NoError(t, err)
	other, err := orgs.CreateRoot("Hope Central")
	require.NoError(t, err)

	return &hierarchy{
		root:         root,
		branchB:      b,
		branchC:      c,
		other:        other,
		rootAdmin:    mustIdentity(t, 1, models.RoleRootAdmin, root.ID),
		branchBAdmin: mustIdentity(t, 2, models.RoleBranchAdmin, b.ID),
		branchCAdmin: mustIdentity(t, 3, models.RoleBranchAdmin, c.ID),
		otherAdmin:   mustIdentity(t, 4, models.RoleRootAdmin, other.ID),
	}
}

func mustIdentity(t *testing.T, userID uint64, role models.Role, orgID uint64) access.Identity {
	t.Helper()
	id, err := access.NewIdentity(userID, role.String(), orgID)
	require.NoError(t, err)
	return id
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}

var ctx = context.Background()
