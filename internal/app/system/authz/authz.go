// internal/app/system/authz/authz.go
package authz

import "github.com/dalemusser/collegesite/internal/domain/models"

// Role is the closed set of principal roles.
type Role = models.Role

const (
	RoleAdmin  = models.RoleAdmin
	RoleEditor = models.RoleEditor
)

// Policy names who may call a route.
type Policy int

const (
	// AnyPrincipal admits every authenticated, active user.
	AnyPrincipal Policy = iota + 1
	// EditorOrAdmin admits content staff.
	EditorOrAdmin
	// AdminOnly admits administrators.
	AdminOnly
)

// Allows reports whether role satisfies p. Unknown policies and unknown roles
// are denied.
func (p Policy) Allows(role Role) bool {
	switch role {
	case RoleAdmin:
		switch p {
		case AnyPrincipal, EditorOrAdmin, AdminOnly:
			return true
		}
	case RoleEditor:
		switch p {
		case AnyPrincipal, EditorOrAdmin:
			return true
		case AdminOnly:
			return false
		}
	}
	return false
}

// DeniedMessage is the 403 message for p.
func (p Policy) DeniedMessage() string {
	switch p {
	case AdminOnly:
		return "Admin access required"
	case EditorOrAdmin:
		return "Editor or Admin access required"
	}
	return "Not authorized to access this route"
}

func (p Policy) String() string {
	switch p {
	case AnyPrincipal:
		return "any"
	case EditorOrAdmin:
		return "editor_or_admin"
	case AdminOnly:
		return "admin_only"
	}
	return "unknown"
}
