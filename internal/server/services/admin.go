package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/logging"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AdminService implements the administrative operations: user management,
// the admin invariant guard, and the bulk ownership transfer. Every entry
// point requires actor.IsAdmin; this is the administrative override of the
// permission model and grants nothing on ordinary humidor access.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *AdminService {
	return &AdminService{db: db, repomanager: m, logger: l.With("module", "admin_service")}
}

// adminGuardTxOptions runs the count-then-mutate sequence of the last-admin
// guard at serializable isolation: under the default read-committed level
// two concurrent demotions of the two remaining admins could each observe
// one other active admin and both commit. Serializable makes one of them
// fail instead, and the caller retries the whole request.
var adminGuardTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// TransferResult reports what a bulk ownership transfer moved.
type TransferResult struct {
	HumidorsMoved int64
	CigarsMoved   int64
	SharesRemoved int64
}

// CreateUser provisions an account on behalf of an administrator.
func (s *AdminService) CreateUser(ctx context.Context, actor *models.User, userName, email, fullName, password string, isAdmin bool) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	if userName == "" || email == "" || password == "" {
		return nil, common.ErrorInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		UserName:     userName,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		IsActive:     true,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "admin_id", actor.ID, "user_id", user.ID, "is_admin", isAdmin)
	return user, nil
}

// GetUser returns any account; admin-only.
func (s *AdminService) GetUser(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Users(s.db).GetByID(ctx, targetID)
}

// SetAdminFlag toggles the target's admin flag. Demoting the last active
// administrator is rejected; the count and the mutation share a transaction
// so two concurrent demotions of the two remaining admins cannot both pass
// the check.
func (s *AdminService) SetAdminFlag(ctx context.Context, actor *models.User, targetID string, isAdmin bool) error {
	if !actor.IsAdmin {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, adminGuardTxOptions, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		target, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		if target.IsAdmin && !isAdmin {
			if err := s.assertAdminChangeSafe(ctx, tx, target); err != nil {
				return err
			}
		}

		return repo.SetAdmin(ctx, targetID, isAdmin)
	})
}

// SetActiveFlag toggles the target's active flag. Accounts are never hard
// deleted; deactivation is the destructive end state, and deactivating the
// last active administrator is rejected.
func (s *AdminService) SetActiveFlag(ctx context.Context, actor *models.User, targetID string, isActive bool) error {
	if !actor.IsAdmin {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, adminGuardTxOptions, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		target, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		if target.IsAdmin && target.IsActive && !isActive {
			if err := s.assertAdminChangeSafe(ctx, tx, target); err != nil {
				return err
			}
		}

		return repo.SetActive(ctx, targetID, isActive)
	})
}

// assertAdminChangeSafe rejects a change that would leave the system with
// zero active administrators. Must run inside the mutating transaction.
func (s *AdminService) assertAdminChangeSafe(ctx context.Context, tx dbx.DBTX, target *models.User) error {
	remaining, err := s.repomanager.Users(tx).CountActiveAdminsExcluding(ctx, target.ID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return common.ErrorInvariantViolation
	}
	return nil
}

// TransferOwnership reassigns every humidor owned by fromID to toID. Cigars
// follow their humidor; share grants and anonymous tokens on the moved
// humidors are removed in the same transaction, so the new owner starts
// from a clean slate. Favorites and wish list markers belong to users, not
// humidors, and are deliberately untouched.
func (s *AdminService) TransferOwnership(ctx context.Context, actor *models.User, fromID, toID string) (*TransferResult, error) {
	if !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}
	if fromID == toID {
		return nil, common.ErrorInvalidArgument
	}

	result := &TransferResult{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)

		if _, err := userRepo.GetByID(ctx, fromID); err != nil {
			return err
		}
		if _, err := userRepo.GetByID(ctx, toID); err != nil {
			return err
		}

		// Count items before moving the containers so pre-existing
		// holdings of the recipient are not included.
		cigarsMoved, err := s.repomanager.Cigars(tx).CountByOwner(ctx, fromID)
		if err != nil {
			return err
		}

		sharesRemoved, err := s.repomanager.Shares(tx).DeleteByOwner(ctx, fromID)
		if err != nil {
			return err
		}
		if _, err := s.repomanager.PublicShares(tx).DeleteByOwner(ctx, fromID); err != nil {
			return err
		}

		humidorsMoved, err := s.repomanager.Humidors(tx).ReassignOwner(ctx, fromID, toID)
		if err != nil {
			return err
		}

		result.HumidorsMoved = humidorsMoved
		result.CigarsMoved = cigarsMoved
		result.SharesRemoved = sharesRemoved
		return nil
	})
	if err != nil {
		if isTaxonomyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("ownership transfer failed: %w", err)
	}

	s.logger.Info(ctx, "ownership transferred",
		"admin_id", actor.ID, "from", fromID, "to", toID,
		"humidors", result.HumidorsMoved, "cigars", result.CigarsMoved)

	return result, nil
}

// isTaxonomyError reports whether err belongs to the authorization error
// taxonomy, as opposed to an infrastructure failure.
func isTaxonomyError(err error) bool {
	for _, sentinel := range []error{
		common.ErrorNotFound, common.ErrorForbidden, common.ErrorInvalidArgument,
		common.ErrorConflict, common.ErrorInvariantViolation, common.ErrorExpired,
		common.ErrorInactiveAccount, common.ErrInvalidToken, common.ErrorUnauthorized,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
