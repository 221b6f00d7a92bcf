package user

import "errors"

var (
	ErrInvalidEmail           = errors.New("Invalid email format")
	ErrInvalidPassword        = errors.New("Invalid password format")
	ErrFullnameRequired       = errors.New("Full name is required and must be a non-empty string")
	ErrFullnameInvalid        = errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	ErrEmailAlreadyRegistered = errors.New("Email already registered")
	ErrUserNotFound           = errors.New("User not found")
	ErrMissingUserID          = errors.New("Missing user ID")
)
