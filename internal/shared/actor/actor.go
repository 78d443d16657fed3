// Package actor models the authenticated caller of a domain operation.
// Role is a closed enum so authorization checkpoints can switch exhaustively
// instead of comparing strings scattered through handlers.
package actor

import (
	"partner_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleSuperadmin  Role = "SUPERADMIN"
	RoleAdmin       Role = "ADMIN"
	RolePartner     Role = "PARTNER"
	RoleSalesPerson Role = "SALES_PERSON"
)

// Valid reports whether the role is one of the known tokens.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RolePartner, RoleSalesPerson:
		return true
	}
	return false
}

// Actor is the authenticated caller passed into domain services.
type Actor struct {
	ID         uuid.UUID
	Role       Role
	HospitalID *uuid.UUID
}

// IsSuperadmin reports whether the actor holds the SUPERADMIN role.
func (a Actor) IsSuperadmin() bool { return a.Role == RoleSuperadmin }

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsPartner reports whether the actor holds the PARTNER role.
func (a Actor) IsPartner() bool { return a.Role == RolePartner }

// CanManageLeads reports whether the actor may act on leads beyond their own
// (admin within their hospital, superadmin everywhere).
func (a Actor) CanManageLeads() bool {
	return a.Role == RoleSuperadmin || a.Role == RoleAdmin
}

// FromContext builds an Actor from the authenticated request identity.
// Returns false and aborts with 401 when the request is unauthenticated.
func FromContext(c *gin.Context) (Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return Actor{}, false
	}
	return Actor{
		ID:         id.UserID(),
		Role:       Role(id.Role()),
		HospitalID: id.HospitalID(),
	}, true
}
