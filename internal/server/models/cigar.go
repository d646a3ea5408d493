package models

import "time"

// Cigar belongs to exactly one humidor. It carries no permission data of
// its own: accessibility is always derived from the containing humidor.
type Cigar struct {
	ID        string
	HumidorID string
	Name      string
	Brand     string
	Quantity  int
	Notes     string
	ImageKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
