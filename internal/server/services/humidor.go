package services

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/humidors"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// HumidorService implements the container lifecycle. The creator becomes
// the owner; updates need the owner or a full-tier grantee; deletion is
// owner-exclusive and cascades to cigars, shares, and anonymous tokens.
type HumidorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

func NewHumidorService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService) *HumidorService {
	return &HumidorService{db: db, repomanager: m, access: access}
}

func (s *HumidorService) Create(ctx context.Context, actor *models.User, name, description string) (*models.Humidor, error) {
	if name == "" {
		return nil, common.ErrorInvalidArgument
	}

	return s.repomanager.Humidors(s.db).Create(ctx, &models.Humidor{
		UserID:      actor.ID,
		Name:        name,
		Description: description,
	})
}

// Get returns the humidor if the actor holds at least view access.
// No access reads as NotFound so existence is not leaked.
func (s *HumidorService) Get(ctx context.Context, actor *models.User, humidorID string) (*models.Humidor, models.PermissionLevel, error) {
	level, err := s.access.PermissionFor(ctx, s.db, actor.ID, humidorID)
	if err != nil {
		return nil, models.PermissionNone, err
	}
	if !level.CanView() {
		return nil, models.PermissionNone, common.ErrorNotFound
	}

	humidor, err := s.repomanager.Humidors(s.db).GetByID(ctx, humidorID)
	if err != nil {
		return nil, models.PermissionNone, err
	}
	return humidor, level, nil
}

// List returns the actor's own humidors.
func (s *HumidorService) List(ctx context.Context, actor *models.User) ([]*models.Humidor, error) {
	return s.repomanager.Humidors(s.db).ListByOwner(ctx, actor.ID)
}

// ListSharedWith returns the humidors other users granted to the actor,
// each with the granted tier. Without this a grantee has no way to learn
// the id of a humidor shared to them.
func (s *HumidorService) ListSharedWith(ctx context.Context, actor *models.User) ([]*humidors.SharedHumidor, error) {
	return s.repomanager.Humidors(s.db).ListSharedWith(ctx, actor.ID)
}

// Update renames/redescribes the humidor. Allowed for the owner and for
// full-tier grantees; permission is re-evaluated inside the transaction.
func (s *HumidorService) Update(ctx context.Context, actor *models.User, humidorID, name, description string) (*models.Humidor, error) {
	if name == "" {
		return nil, common.ErrorInvalidArgument
	}

	var humidor *models.Humidor
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, err := s.access.PermissionFor(ctx, tx, actor.ID, humidorID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanManage() {
			return common.ErrorForbidden
		}

		humidor, err = s.repomanager.Humidors(tx).GetByID(ctx, humidorID)
		if err != nil {
			return err
		}
		humidor.Name = name
		humidor.Description = description
		return s.repomanager.Humidors(tx).Update(ctx, humidor)
	})
	if err != nil {
		return nil, err
	}
	return humidor, nil
}

// Delete destroys the humidor with everything referencing it. Owner-only:
// grantees at any tier get Forbidden, strangers get NotFound.
func (s *HumidorService) Delete(ctx context.Context, actor *models.User, humidorID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, err := s.access.PermissionFor(ctx, tx, actor.ID, humidorID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}

		ownerID, err := s.access.ResolveHumidorOwner(ctx, tx, humidorID)
		if err != nil {
			return err
		}
		if ownerID != actor.ID {
			return common.ErrorForbidden
		}

		return s.repomanager.Humidors(tx).Delete(ctx, humidorID)
	})
}
