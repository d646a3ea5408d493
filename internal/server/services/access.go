// Package services contains server-side business logic. This file implements
// the ownership resolver and the permission evaluator: the single choke
// point every read/write path goes through before touching data.
package services

import (
	"context"
	"errors"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// AccessService derives the effective permission a user holds on a humidor
// or cigar. It never trusts caller-supplied ownership claims: the owner is
// re-read from the store on every evaluation, and cigars resolve through
// their containing humidor.
//
// Methods take a dbx.DBTX so that callers can evaluate inside the same
// transaction as the mutation they are guarding.
type AccessService struct {
	repomanager repomanager.RepositoryManager
}

func NewAccessService(m repomanager.RepositoryManager) *AccessService {
	return &AccessService{repomanager: m}
}

// ResolveHumidorOwner returns the owning user id of the humidor, or
// common.ErrorNotFound if the humidor does not exist.
func (s *AccessService) ResolveHumidorOwner(ctx context.Context, db dbx.DBTX, humidorID string) (string, error) {
	humidor, err := s.repomanager.Humidors(db).GetByID(ctx, humidorID)
	if err != nil {
		return "", err
	}
	return humidor.UserID, nil
}

// PermissionFor returns the effective permission level userID holds on the
// humidor. Priority order: ownership wins over any (stray) share row, then
// an active share's tier, then none. Admins get no implicit access here;
// the administrative override applies only to administrative operations.
func (s *AccessService) PermissionFor(ctx context.Context, db dbx.DBTX, userID, humidorID string) (models.PermissionLevel, error) {
	ownerID, err := s.ResolveHumidorOwner(ctx, db, humidorID)
	if err != nil {
		return models.PermissionNone, err
	}

	if ownerID == userID {
		return models.PermissionFull, nil
	}

	share, err := s.repomanager.Shares(db).Get(ctx, humidorID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.PermissionNone, nil
		}
		return models.PermissionNone, err
	}

	return share.Level, nil
}

// PermissionForCigar resolves the cigar's containing humidor and evaluates
// the permission against it. A cigar referencing a missing humidor is a
// broken chain and surfaces as common.ErrorNotFound, never as an implicit
// grant or denial.
func (s *AccessService) PermissionForCigar(ctx context.Context, db dbx.DBTX, userID, cigarID string) (models.PermissionLevel, *models.Cigar, error) {
	cigar, err := s.repomanager.Cigars(db).GetByID(ctx, cigarID)
	if err != nil {
		return models.PermissionNone, nil, err
	}

	level, err := s.PermissionFor(ctx, db, userID, cigar.HumidorID)
	if err != nil {
		return models.PermissionNone, nil, err
	}

	return level, cigar, nil
}
