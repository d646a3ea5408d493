// Package shares persists permission grants between a humidor's owner and
// other users.
package shares

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, share *models.HumidorShare) (*models.HumidorShare, error)

	// Get returns the active share for the (humidor, user) pair, or
	// common.ErrorNotFound when the pair is not shared.
	Get(ctx context.Context, humidorID, userID string) (*models.HumidorShare, error)

	ListByHumidor(ctx context.Context, humidorID string) ([]*models.HumidorShare, error)
	UpdateLevel(ctx context.Context, humidorID, userID string, level models.PermissionLevel) (*models.HumidorShare, error)
	Delete(ctx context.Context, humidorID, userID string) error

	// DeleteByOwner removes every share row referencing a humidor owned by
	// ownerID and returns how many were removed. Shares do not survive a
	// bulk ownership transfer.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
