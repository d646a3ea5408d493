// Package lists persists the per-user favorites and wish list markers.
// These are cross-cutting: they reference cigars directly, carry no
// permission data, and are never part of an ownership transfer.
package lists

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

// Kind selects which marker table an operation acts on.
type Kind string

const (
	KindFavorites Kind = "favorites"
	KindWishList  Kind = "wish_list"
)

type Repository interface {
	Add(ctx context.Context, kind Kind, userID, cigarID string) error
	Remove(ctx context.Context, kind Kind, userID, cigarID string) error
	ListCigars(ctx context.Context, kind Kind, userID string) ([]*models.Cigar, error)

	// ListCigarsForHumidor returns the user's marked cigars restricted to a
	// single humidor. Feeds the anonymous share view's inclusion flags.
	ListCigarsForHumidor(ctx context.Context, kind Kind, userID, humidorID string) ([]*models.Cigar, error)
}
