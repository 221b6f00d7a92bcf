package constants

const (
	ViewCertificates  = "view_certificates"
	IssueCertificates = "issue_certificates"
	ManageUsers       = "manage_users"
)

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewCertificates:  {Viewer, Manager, Admin, Superadmin},
	IssueCertificates: {Manager, Admin, Superadmin},
	ManageUsers:       {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
