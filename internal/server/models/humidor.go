package models

import "time"

// Humidor is a container owned by exactly one user. Ownership changes only
// through the administrative bulk transfer, never by editing the row
// directly.
type Humidor struct {
	ID          string
	UserID      string
	Name        string
	Description string
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
