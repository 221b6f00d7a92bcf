package constants

import (
	"slices"
	"strings"
)

// Staff roles, least privileged first.
const (
	Viewer     = "viewer"
	Manager    = "manager"
	Admin      = "admin"
	Superadmin = "superadmin"
)

// ValidRoles is the set of allowed values for a user's role.
var ValidRoles = []string{Viewer, Manager, Admin, Superadmin}

// IsValidRole reports whether role is one of ValidRoles, compared exactly.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}

// ParseRole normalizes user input ("  Manager ") and reports whether it names a role.
func ParseRole(s string) (string, bool) {
	role := strings.ToLower(strings.TrimSpace(s))
	return role, IsValidRole(role)
}
