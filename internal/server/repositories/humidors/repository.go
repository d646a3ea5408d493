// Package humidors persists humidors, the owned container entities.
package humidors

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

// SharedHumidor pairs a humidor with the tier granted to the listing user.
type SharedHumidor struct {
	Humidor *models.Humidor
	Level   models.PermissionLevel
}

type Repository interface {
	Create(ctx context.Context, humidor *models.Humidor) (*models.Humidor, error)
	GetByID(ctx context.Context, id string) (*models.Humidor, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Humidor, error)

	// ListSharedWith returns the humidors shared to userID by others,
	// each with the granted tier.
	ListSharedWith(ctx context.Context, userID string) ([]*SharedHumidor, error)
	Update(ctx context.Context, humidor *models.Humidor) error
	SetImageKey(ctx context.Context, id string, imageKey string) error

	// Delete removes the humidor. Cigars, shares and public share tokens
	// referencing it go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error

	// ReassignOwner moves every humidor owned by fromUserID to toUserID and
	// returns how many rows moved. Used only by the bulk ownership transfer.
	ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error)
}
