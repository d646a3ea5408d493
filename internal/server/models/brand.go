package models

import "time"

// Brand is shared reference vocabulary. Readable by any authenticated user;
// mutation is admin-gated.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
