package policies

import "errors"

var (
	ErrInvalidRole                               = errors.New("Invalid role")
	ErrOnlySuperadminsCanAssignAdminOrSuperadmin = errors.New("Only superadmins can assign admin or superadmin roles")
	ErrTargetUserNotFound                        = errors.New("Target user not found")
	ErrUsersCannotModifyTheirOwnRole             = errors.New("Users cannot modify their own role")
	ErrMustKeepOneSuperadmin                     = errors.New("At least one superadmin is required")
)
