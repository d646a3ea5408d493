// Package common contains shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authorization errors.
	ErrorForbidden       = errors.New("forbidden")
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorConflict        = errors.New("conflict")

	// Admin invariant errors.
	ErrorInvariantViolation = errors.New("last administrator")

	// Authentication errors.
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorInactiveAccount = errors.New("account is deactivated")
	ErrInvalidToken      = errors.New("invalid token")

	// Anonymous share token lifecycle.
	ErrorExpired = errors.New("share link expired")

	// Generic/internal flow control, distinct from the authorization
	// taxonomy. Callers retry the whole request, not sub-steps.
	ErrorInternal = errors.New("internal error")
)
