package domain

import "errors"

var (
	ErrValidation             = errors.New("validation failed")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrMissingToken           = errors.New("access token is required")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("insufficient permissions")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrEmailTaken             = errors.New("user with this email already exists")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrSessionNotFound        = errors.New("refresh session not found")
)

// IsConflict reports whether err signals a uniqueness violation on a user.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUserExists) || errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken)
}
