package models

import "time"

// PublicShare is an unauthenticated, time-bounded, read-only capability
// scoped to a single humidor. The ID doubles as the bearer token.
// A nil ExpiresAt means the token lives until explicitly revoked.
type PublicShare struct {
	ID               string
	HumidorID        string
	CreatedBy        string
	ExpiresAt        *time.Time
	IncludeFavorites bool
	IncludeWishList  bool
	Label            string
	CreatedAt        time.Time
}

// Expired reports whether the token's expiry is set and in the past.
func (s *PublicShare) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
