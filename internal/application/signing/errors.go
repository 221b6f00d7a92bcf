package signing

import "errors"

var (
	ErrSecretTooShort = errors.New("signing secret must be at least 32 bytes")
	ErrRandomSource   = errors.New("secure random source unavailable")
)
