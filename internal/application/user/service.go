package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	policies "certify-backend/internal/application/policies/user"
	"certify-backend/internal/domain"
	"certify-backend/internal/pkg/constants"
	"certify-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service manages the staff accounts that may issue certificates.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// CreateUser validates and stores a new account with a bcrypt password hash.
// ActorRole is checked against the requested role; pass constants.Superadmin when
// bootstrapping from the command line.
func (s *Service) CreateUser(ctx context.Context, actorRole string, in CreateUserInput) (*domain.User, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, ErrFullnameRequired
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, ErrFullnameInvalid
	}
	role := constants.Viewer
	if strings.TrimSpace(in.Role) != "" {
		role, _ = constants.ParseRole(in.Role)
	}
	if err := policies.ValidateRoleAssignment(ctx, s.DB, policies.ValidateRoleAssignmentParams{
		ActorRole:  actorRole,
		TargetRole: role,
	}); err != nil {
		return nil, err
	}

	var existing domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     titleCaseAndNormalize(trimmed),
		Role:         role,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return u, nil
}

// ViewUser returns user by ID.
func (s *Service) ViewUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every account ordered by creation time.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type UpdateUserRoleInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	TargetRole   string
}

// UpdateUserRole changes the target's role after the policy check and signs them out
// everywhere so the new permissions apply on their next request.
func (s *Service) UpdateUserRole(ctx context.Context, in UpdateUserRoleInput) (*domain.User, error) {
	if _, err := uuid.Parse(in.TargetUserID); err != nil {
		return nil, ErrMissingUserID
	}
	targetRole, _ := constants.ParseRole(in.TargetRole)
	if err := policies.ValidateRoleAssignment(ctx, s.DB, policies.ValidateRoleAssignmentParams{
		ActorRole:    in.ActorRole,
		TargetRole:   targetRole,
		ActorUserID:  in.ActorUserID,
		TargetUserID: in.TargetUserID,
	}); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", in.TargetUserID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Role = targetRole
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return &u, nil
}

func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	capitalize := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
