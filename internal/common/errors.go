// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Download-by-link decisions.
	ErrorAccessDenied    = errors.New("access denied")
	ErrorInvalidPassword = errors.New("invalid password")

	// ErrorBlobInconsistent reports a metadata record whose bytes are gone.
	ErrorBlobInconsistent = errors.New("blob inconsistent with metadata")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
