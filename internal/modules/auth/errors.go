package auth

import (
	"errors"
	"strings"
)

var (
	ErrConflict            = errors.New("email or username already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired or invalid")
)

// ValidationError lists every rule a request broke.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Errors, "; ")
}

func newValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}
