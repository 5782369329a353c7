package models

import "fmt"

// Role is the closed set of principal roles. Stored values keep the
// vocabulary the first deployments used.
type Role string

const (
	RoleRootAdmin   Role = "main_church"
	RoleBranchAdmin Role = "branch_admin"
)

// ParseRole converts a stored or transported role tag.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRootAdmin:
		return RoleRootAdmin, nil
	case RoleBranchAdmin:
		return RoleBranchAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}
