// Package cigars persists cigars, the items held by humidors.
package cigars

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cigar *models.Cigar) (*models.Cigar, error)
	GetByID(ctx context.Context, id string) (*models.Cigar, error)
	ListByHumidor(ctx context.Context, humidorID string) ([]*models.Cigar, error)
	Update(ctx context.Context, cigar *models.Cigar) error
	SetImageKey(ctx context.Context, id string, imageKey string) error
	Delete(ctx context.Context, id string) error

	// Move changes the cigar's containing humidor. Callers must already have
	// verified permission on both source and destination.
	Move(ctx context.Context, id string, destHumidorID string) error

	// CountByOwner counts cigars transitively owned through the user's
	// humidors. Used to report how many items a bulk transfer moved.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
