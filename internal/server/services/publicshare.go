package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/logging"
	"github.com/VictoryTek/humidor-sub001/internal/server/config"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/lists"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// PublicShareService mints and resolves anonymous share tokens: read-only,
// optionally expiring capabilities scoped to a single humidor. The token id
// itself is the bearer credential; resolution requires no identity at all.
type PublicShareService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	access        *AccessService
	publicBaseURL string
	logger        logging.Logger
	now           func() time.Time
}

func NewPublicShareService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService, cfg *config.Config, l logging.Logger) *PublicShareService {
	return &PublicShareService{
		db:            db,
		repomanager:   m,
		access:        access,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        l.With("module", "public_share_service"),
		now:           time.Now,
	}
}

// ShareURL builds the absolute resolve URL for a token, the link an owner
// hands out to anonymous viewers.
func (s *PublicShareService) ShareURL(tokenID string) string {
	return strings.TrimRight(s.publicBaseURL, "/") + "/api/v1/shared/humidors/" + tokenID
}

// PublicOwnerInfo is the owner data exposed on an anonymous view: enough to
// attribute the collection, nothing that identifies the account.
type PublicOwnerInfo struct {
	UserName string
	FullName string
}

// PublicHumidorView is what an anonymous token resolves to. It never
// carries write affordances or anything outside the single shared humidor.
type PublicHumidorView struct {
	Humidor   *models.Humidor
	Owner     PublicOwnerInfo
	Cigars    []*models.Cigar
	Favorites []*models.Cigar // nil unless the token includes favorites
	WishList  []*models.Cigar // nil unless the token includes the wish list
}

// Issue mints a token for the humidor. Owner-only. Multiple live tokens per
// humidor are fine; each is labeled and expires independently. A nil
// expiry means the token lives until revoked.
func (s *PublicShareService) Issue(ctx context.Context, actor *models.User, humidorID string, expiresAt *time.Time, includeFavorites, includeWishList bool, label string) (*models.PublicShare, error) {
	var share *models.PublicShare
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requireOwner(ctx, tx, actor, humidorID); err != nil {
			return err
		}

		// 32 random bytes; the hex string is the entire credential
		token, err := common.MakeRandHexString(32)
		if err != nil {
			return err
		}

		share, err = s.repomanager.PublicShares(tx).Create(ctx, &models.PublicShare{
			ID:               token,
			HumidorID:        humidorID,
			CreatedBy:        actor.ID,
			ExpiresAt:        expiresAt,
			IncludeFavorites: includeFavorites,
			IncludeWishList:  includeWishList,
			Label:            label,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "public share created", "humidor_id", humidorID, "token_id", share.ID)
	return share, nil
}

// List returns the humidor's live tokens; owner-only.
func (s *PublicShareService) List(ctx context.Context, actor *models.User, humidorID string) ([]*models.PublicShare, error) {
	if err := s.requireOwner(ctx, s.db, actor, humidorID); err != nil {
		return nil, err
	}
	return s.repomanager.PublicShares(s.db).ListByHumidor(ctx, humidorID)
}

// Resolve exchanges a token id for the read-only humidor view. Expiry is
// enforced lazily: the first resolution past the deadline deletes the row
// and reports Expired, so the next attempt is a plain NotFound and dead
// tokens do not pile up.
func (s *PublicShareService) Resolve(ctx context.Context, tokenID string) (*PublicHumidorView, error) {
	share, err := s.repomanager.PublicShares(s.db).GetByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	if share.Expired(s.now()) {
		if err := s.repomanager.PublicShares(s.db).Delete(ctx, tokenID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "failed to reap expired token", "token_id", tokenID, "error", err)
		}
		return nil, common.ErrorExpired
	}

	humidor, err := s.repomanager.Humidors(s.db).GetByID(ctx, share.HumidorID)
	if err != nil {
		return nil, err
	}
	owner, err := s.repomanager.Users(s.db).GetByID(ctx, humidor.UserID)
	if err != nil {
		return nil, err
	}

	view := &PublicHumidorView{
		Humidor: humidor,
		Owner:   PublicOwnerInfo{UserName: owner.UserName, FullName: owner.FullName},
	}

	view.Cigars, err = s.repomanager.Cigars(s.db).ListByHumidor(ctx, share.HumidorID)
	if err != nil {
		return nil, err
	}

	// Inclusion flags expose the owner's markers, restricted to this
	// humidor's cigars only.
	listRepo := s.repomanager.Lists(s.db)
	if share.IncludeFavorites {
		view.Favorites, err = listRepo.ListCigarsForHumidor(ctx, lists.KindFavorites, humidor.UserID, share.HumidorID)
		if err != nil {
			return nil, err
		}
	}
	if share.IncludeWishList {
		view.WishList, err = listRepo.ListCigarsForHumidor(ctx, lists.KindWishList, humidor.UserID, share.HumidorID)
		if err != nil {
			return nil, err
		}
	}

	return view, nil
}

// Revoke deletes a token. Owner-only; revoking an already-gone token is a
// plain NotFound.
func (s *PublicShareService) Revoke(ctx context.Context, actor *models.User, tokenID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.PublicShares(tx)

		share, err := repo.GetByID(ctx, tokenID)
		if err != nil {
			return err
		}
		if err := s.requireOwner(ctx, tx, actor, share.HumidorID); err != nil {
			return err
		}
		return repo.Delete(ctx, tokenID)
	})
}

func (s *PublicShareService) requireOwner(ctx context.Context, tx dbx.DBTX, actor *models.User, humidorID string) error {
	ownerID, err := s.access.ResolveHumidorOwner(ctx, tx, humidorID)
	if err != nil {
		return err
	}
	if ownerID != actor.ID {
		return common.ErrorForbidden
	}
	return nil
}
