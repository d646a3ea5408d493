package services

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// CigarService implements item operations. A cigar has no permissions of
// its own; every call resolves the containing humidor and evaluates the
// actor's tier there. View reads, edit adds and updates, full deletes.
type CigarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

func NewCigarService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService) *CigarService {
	return &CigarService{db: db, repomanager: m, access: access}
}

// Add creates a cigar in the humidor. Requires the edit tier.
func (s *CigarService) Add(ctx context.Context, actor *models.User, cigar *models.Cigar) (*models.Cigar, error) {
	if cigar.Name == "" || cigar.HumidorID == "" {
		return nil, common.ErrorInvalidArgument
	}
	if cigar.Quantity < 0 {
		return nil, common.ErrorInvalidArgument
	}

	var created *models.Cigar
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.require(ctx, tx, actor, cigar.HumidorID, models.PermissionEdit); err != nil {
			return err
		}

		var err error
		created, err = s.repomanager.Cigars(tx).Create(ctx, cigar)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns the cigar if the actor can view its humidor. No access reads
// as NotFound, matching the humidor-level existence hiding.
func (s *CigarService) Get(ctx context.Context, actor *models.User, cigarID string) (*models.Cigar, error) {
	level, cigar, err := s.access.PermissionForCigar(ctx, s.db, actor.ID, cigarID)
	if err != nil {
		return nil, err
	}
	if !level.CanView() {
		return nil, common.ErrorNotFound
	}
	return cigar, nil
}

// List returns the humidor's cigars for any actor with view access.
func (s *CigarService) List(ctx context.Context, actor *models.User, humidorID string) ([]*models.Cigar, error) {
	if err := s.require(ctx, s.db, actor, humidorID, models.PermissionView); err != nil {
		return nil, err
	}
	return s.repomanager.Cigars(s.db).ListByHumidor(ctx, humidorID)
}

// Update rewrites the cigar's fields. Requires the edit tier on the
// containing humidor; the humidor binding itself is not changed here,
// that is Move's job.
func (s *CigarService) Update(ctx context.Context, actor *models.User, cigarID string, name, brand string, quantity int, notes string) (*models.Cigar, error) {
	if name == "" || quantity < 0 {
		return nil, common.ErrorInvalidArgument
	}

	var cigar *models.Cigar
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, found, err := s.access.PermissionForCigar(ctx, tx, actor.ID, cigarID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanEdit() {
			return common.ErrorForbidden
		}

		cigar = found
		cigar.Name = name
		cigar.Brand = brand
		cigar.Quantity = quantity
		cigar.Notes = notes
		return s.repomanager.Cigars(tx).Update(ctx, cigar)
	})
	if err != nil {
		return nil, err
	}
	return cigar, nil
}

// Delete removes the cigar. Requires the full tier: grantees who may add
// and update still cannot destroy items.
func (s *CigarService) Delete(ctx context.Context, actor *models.User, cigarID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, _, err := s.access.PermissionForCigar(ctx, tx, actor.ID, cigarID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanManage() {
			return common.ErrorForbidden
		}

		return s.repomanager.Cigars(tx).Delete(ctx, cigarID)
	})
}

// Move rebinds the cigar to another humidor. The actor needs the edit tier
// on both ends; both evaluations and the move share one transaction so
// neither container can change owner mid-flight.
func (s *CigarService) Move(ctx context.Context, actor *models.User, cigarID, destHumidorID string) (*models.Cigar, error) {
	var cigar *models.Cigar
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, found, err := s.access.PermissionForCigar(ctx, tx, actor.ID, cigarID)
		if err != nil {
			return err
		}
		if !level.CanView() {
			return common.ErrorNotFound
		}
		if !level.CanEdit() {
			return common.ErrorForbidden
		}

		if found.HumidorID == destHumidorID {
			cigar = found
			return nil
		}

		if err := s.require(ctx, tx, actor, destHumidorID, models.PermissionEdit); err != nil {
			return err
		}

		if err := s.repomanager.Cigars(tx).Move(ctx, cigarID, destHumidorID); err != nil {
			return err
		}
		found.HumidorID = destHumidorID
		cigar = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cigar, nil
}

// require evaluates the actor's tier on the humidor and maps the outcome to
// the taxonomy: no access at all hides existence with NotFound, a tier that
// is present but too low is Forbidden.
func (s *CigarService) require(ctx context.Context, db dbx.DBTX, actor *models.User, humidorID string, need models.PermissionLevel) error {
	level, err := s.access.PermissionFor(ctx, db, actor.ID, humidorID)
	if err != nil {
		return err
	}
	if !level.CanView() {
		return common.ErrorNotFound
	}

	switch need {
	case models.PermissionView:
		return nil
	case models.PermissionEdit:
		if !level.CanEdit() {
			return common.ErrorForbidden
		}
	case models.PermissionFull:
		if !level.CanManage() {
			return common.ErrorForbidden
		}
	}
	return nil
}
