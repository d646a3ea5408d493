package services

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// BrandService exposes the shared brand vocabulary. Reading is open to any
// authenticated user; writing is admin-gated because the list is global.
type BrandService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBrandService(db *sql.DB, m repomanager.RepositoryManager) *BrandService {
	return &BrandService{db: db, repomanager: m}
}

func (s *BrandService) List(ctx context.Context) ([]*models.Brand, error) {
	return s.repomanager.Brands(s.db).List(ctx)
}

func (s *BrandService) Create(ctx context.Context, actor *models.User, name string) (*models.Brand, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	if name == "" {
		return nil, common.ErrorInvalidArgument
	}
	return s.repomanager.Brands(s.db).Create(ctx, &models.Brand{Name: name})
}

func (s *BrandService) Delete(ctx context.Context, actor *models.User, brandID string) error {
	if !actor.IsAdmin {
		return common.ErrorForbidden
	}
	return s.repomanager.Brands(s.db).Delete(ctx, brandID)
}
