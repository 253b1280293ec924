// Package common defines shared sentinel errors and random helpers used
// across the engine and its presentation layer. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors. Each operation collapses its failure reasons into
	// one of these so callers cannot tell an unknown user from a bad password.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrRegistrationFailed   = errors.New("registration failed")
	ErrPasswordChangeFailed = errors.New("password change failed")
	ErrPasswordResetFailed  = errors.New("password reset failed")

	// Reset token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
