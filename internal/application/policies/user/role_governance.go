package policies

import (
	"context"
	"errors"

	"certify-backend/internal/domain"
	"certify-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

type ValidateRoleAssignmentParams struct {
	ActorRole    string
	TargetRole   string
	ActorUserID  string
	TargetUserID string
}

// ValidateRoleAssignment decides whether the actor may give the target the requested role.
// An empty TargetUserID checks the role alone, as for a user that does not exist yet.
func ValidateRoleAssignment(ctx context.Context, db *gorm.DB, params ValidateRoleAssignmentParams) error {
	if !constants.IsValidRole(params.TargetRole) {
		return ErrInvalidRole
	}
	if (params.TargetRole == constants.Admin || params.TargetRole == constants.Superadmin) &&
		params.ActorRole != constants.Superadmin {
		return ErrOnlySuperadminsCanAssignAdminOrSuperadmin
	}
	if params.TargetUserID == "" {
		return nil
	}
	var target domain.User
	db = db.WithContext(ctx)
	if err := db.Where("user_id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetUserNotFound
		}
		return err
	}
	if params.ActorUserID == params.TargetUserID && params.ActorRole != constants.Superadmin {
		return ErrUsersCannotModifyTheirOwnRole
	}
	// Last superadmin cannot be downgraded.
	if target.Role == constants.Superadmin && params.TargetRole != constants.Superadmin {
		var count int64
		if err := db.Model(&domain.User{}).Where("role = ?", constants.Superadmin).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrMustKeepOneSuperadmin
		}
	}
	return nil
}
