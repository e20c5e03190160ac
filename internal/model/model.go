package model

import "fmt"

// Role is the closed set of user roles. Authorization decisions compare
// privilege ranks, never raw role equality chains.
type Role string

const (
	RoleViewer      Role = "Viewer"
	RoleContributor Role = "Contributor"
	RoleManager     Role = "Manager"
	RoleAdmin       Role = "Admin"
)

// rank orders roles by privilege. Unknown roles rank below Viewer.
func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleContributor:
		return 2
	case RoleManager:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}

// Privileged reports whether the role bypasses ownership and share checks.
func (r Role) Privileged() bool {
	return r.rank() >= RoleManager.rank()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// AccessType is a document's default visibility tier.
// Restricted is realized purely through shares: without one it behaves like Private.
type AccessType string

const (
	AccessPrivate    AccessType = "Private"
	AccessPublic     AccessType = "Public"
	AccessRestricted AccessType = "Restricted"
)

func (a AccessType) Valid() bool {
	switch a {
	case AccessPrivate, AccessPublic, AccessRestricted:
		return true
	}
	return false
}

// PermissionLevel is the grant level of a document share.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "Read"
	PermissionWrite PermissionLevel = "Write"
)

func (p PermissionLevel) Valid() bool {
	return p == PermissionRead || p == PermissionWrite
}

// Actor is the authenticated identity attached to a request by the auth
// collaborator. The core consumes it, it never authenticates.
type Actor struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
