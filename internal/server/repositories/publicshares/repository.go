// Package publicshares persists anonymous share tokens.
package publicshares

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, share *models.PublicShare) (*models.PublicShare, error)
	GetByID(ctx context.Context, id string) (*models.PublicShare, error)
	ListByHumidor(ctx context.Context, humidorID string) ([]*models.PublicShare, error)
	Delete(ctx context.Context, id string) error

	// DeleteByOwner revokes every token minted for a humidor owned by
	// ownerID. Used by the bulk ownership transfer.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
