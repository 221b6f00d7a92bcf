package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(IssueCertificates, Manager))
	assert.True(t, AllowedRole(IssueCertificates, Superadmin))
	assert.False(t, AllowedRole(IssueCertificates, Viewer))
	assert.True(t, AllowedRole(ViewCertificates, Viewer))
	assert.False(t, AllowedRole(ManageUsers, Manager))
	assert.False(t, AllowedRole("delete_certificates", Superadmin))
}

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles {
		assert.True(t, IsValidRole(r))
	}
	assert.False(t, IsValidRole("owner"))
	assert.False(t, IsValidRole(""))
}

func TestEveryPermissionUsesValidRoles(t *testing.T) {
	for perm, roles := range PermissionRoles {
		assert.NotEmpty(t, roles, perm)
		for _, r := range roles {
			assert.True(t, IsValidRole(r), "%s grants unknown role %q", perm, r)
		}
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("  Manager ")
	assert.True(t, ok)
	assert.Equal(t, Manager, role)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
}
