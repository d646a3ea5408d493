package services

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// ShareService manages permission grants on humidors. Share management is
// owner-exclusive: even a grantee holding the full tier cannot grant,
// change, or revoke access for anyone. Every mutation re-derives ownership
// from the store inside its transaction.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService) *ShareService {
	return &ShareService{db: db, repomanager: m, access: access}
}

// Create grants the permission level on the humidor to the grantee.
// Only the owner may grant; self-sharing is rejected; an existing active
// grant for the pair is a conflict the caller must update instead.
func (s *ShareService) Create(ctx context.Context, actor *models.User, humidorID, granteeID string, level models.PermissionLevel) (*models.HumidorShare, error) {
	if !level.CanView() {
		return nil, common.ErrorInvalidArgument
	}

	var share *models.HumidorShare
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requireOwner(ctx, tx, actor, humidorID); err != nil {
			return err
		}
		if granteeID == actor.ID {
			return common.ErrorInvalidArgument
		}
		if _, err := s.repomanager.Users(tx).GetByID(ctx, granteeID); err != nil {
			return err
		}

		var err error
		share, err = s.repomanager.Shares(tx).Create(ctx, &models.HumidorShare{
			HumidorID: humidorID,
			UserID:    granteeID,
			GrantedBy: actor.ID,
			Level:     level,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// UpdateLevel changes the tier of an existing grant.
func (s *ShareService) UpdateLevel(ctx context.Context, actor *models.User, humidorID, granteeID string, level models.PermissionLevel) (*models.HumidorShare, error) {
	if !level.CanView() {
		return nil, common.ErrorInvalidArgument
	}

	var share *models.HumidorShare
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requireOwner(ctx, tx, actor, humidorID); err != nil {
			return err
		}

		var err error
		share, err = s.repomanager.Shares(tx).UpdateLevel(ctx, humidorID, granteeID, level)
		return err
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// Revoke removes the grant for the pair. The ownership check runs first, so
// a non-owner gets Forbidden rather than learning whether the grant exists;
// for the verified owner a missing grant is a plain NotFound.
func (s *ShareService) Revoke(ctx context.Context, actor *models.User, humidorID, granteeID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requireOwner(ctx, tx, actor, humidorID); err != nil {
			return err
		}
		return s.repomanager.Shares(tx).Delete(ctx, humidorID, granteeID)
	})
}

// List returns the humidor's share list. Any party with access may see it,
// so collaborators can see co-collaborators; users without access get
// NotFound, not Forbidden, to keep existence hidden.
func (s *ShareService) List(ctx context.Context, actor *models.User, humidorID string) ([]*models.HumidorShare, error) {
	level, err := s.access.PermissionFor(ctx, s.db, actor.ID, humidorID)
	if err != nil {
		return nil, err
	}
	if !level.CanView() {
		return nil, common.ErrorNotFound
	}

	return s.repomanager.Shares(s.db).ListByHumidor(ctx, humidorID)
}

// requireOwner resolves the humidor's owner and rejects everyone else with
// Forbidden. The humidor's absence surfaces as NotFound before any
// ownership claim is made.
func (s *ShareService) requireOwner(ctx context.Context, tx dbx.DBTX, actor *models.User, humidorID string) error {
	ownerID, err := s.access.ResolveHumidorOwner(ctx, tx, humidorID)
	if err != nil {
		return err
	}
	if ownerID != actor.ID {
		return common.ErrorForbidden
	}
	return nil
}
