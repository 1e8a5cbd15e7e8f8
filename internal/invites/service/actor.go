package service

import "github.com/accredhub/accredhub/internal/invites/domain"

// Actor is the authenticated caller of an administrative operation. It is
// passed explicitly into every operation that needs authorization; there
// is no ambient session state.
type Actor struct {
	UserID        string
	Role          domain.Role
	InstitutionID string
}

// IsPlatformAdmin reports whether the actor may operate across tenants.
func (a Actor) IsPlatformAdmin() bool {
	return a.Role == domain.RolePlatformAdmin
}

// CanManageInstitution reports whether the actor may manage invites and
// campaigns bound to the given institution. Platform admins manage all;
// institution admins only their own tenant.
func (a Actor) CanManageInstitution(institutionID string) bool {
	if a.IsPlatformAdmin() {
		return true
	}
	return a.Role == domain.RoleInstitutionAdmin &&
		a.InstitutionID != "" &&
		a.InstitutionID == institutionID
}

// CanGrantRole reports whether the actor may issue an invite granting the
// given role. Institution admins can only grant roles scoped to an
// institution; platform-level roles require a platform admin.
func (a Actor) CanGrantRole(role domain.Role) bool {
	if a.IsPlatformAdmin() {
		return true
	}
	return a.Role == domain.RoleInstitutionAdmin && role.RequiresInstitution()
}
