package models

import "time"

// HumidorShare grants a permission tier on a humidor to another user.
// At most one active share exists per (humidor, user) pair; the owner is
// never a valid grantee of their own humidor.
type HumidorShare struct {
	ID        string
	HumidorID string
	UserID    string
	GrantedBy string
	Level     PermissionLevel
	CreatedAt time.Time
	UpdatedAt time.Time
}
