package access

import (
	"fmt"

	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
)

// Identity is the resolved caller handed over by the authentication boundary.
// It is immutable once built; construct it only through NewIdentity.
type Identity struct {
	userID         uint64
	role           models.Role
	organizationID uint64
}

// NewIdentity validates the three identity fields. Any missing or unusable
// field yields ErrMissingIdentity.
func NewIdentity(userID uint64, role string, organizationID uint64) (Identity, error) {
	if userID == 0 || role == "" || organizationID == 0 {
		return Identity{}, fmt.Errorf("%w: user, role and organization are required", apierrors.ErrMissingIdentity)
	}
	r, err := models.ParseRole(role)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", apierrors.ErrMissingIdentity, err)
	}
	return Identity{userID: userID, role: r, organizationID: organizationID}, nil
}

func (i Identity) UserID() uint64         { return i.userID }
func (i Identity) Role() models.Role      { return i.role }
func (i Identity) OrganizationID() uint64 { return i.organizationID }

// IsRootAdmin reports whether the caller administers a root organization.
func (i Identity) IsRootAdmin() bool {
	return i.role == models.RoleRootAdmin
}

// Valid reports whether the identity was built by NewIdentity.
func (i Identity) Valid() bool {
	return i.userID != 0 && i.organizationID != 0 && i.role != ""
}

func (i Identity) String() string {
	return fmt.Sprintf("user=%d role=%s org=%d", i.userID, i.role, i.organizationID)
}
