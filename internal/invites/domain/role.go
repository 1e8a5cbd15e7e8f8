package domain

// Role is a platform role an invite can grant.
type Role string

const (
	RolePlatformAdmin    Role = "PLATFORM_ADMIN"
	RoleInstitutionAdmin Role = "INSTITUTION_ADMIN"
	RoleInstitutionStaff Role = "INSTITUTION_STAFF"
	RoleStudent          Role = "STUDENT"
	RoleQCTOAdmin        Role = "QCTO_ADMIN"
	RoleQCTOReviewer     Role = "QCTO_REVIEWER"
)

// Valid reports whether the role belongs to the fixed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleInstitutionAdmin, RoleInstitutionStaff,
		RoleStudent, RoleQCTOAdmin, RoleQCTOReviewer:
		return true
	}
	return false
}

// RequiresInstitution reports whether invites granting this role must be
// bound to an institution.
func (r Role) RequiresInstitution() bool {
	switch r {
	case RoleInstitutionAdmin, RoleInstitutionStaff, RoleStudent:
		return true
	}
	return false
}
