// Package brands persists the shared brand vocabulary.
package brands

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	List(ctx context.Context) ([]*models.Brand, error)
	Delete(ctx context.Context, id string) error
}
