package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/lists"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

// ListService manages the per-user favorites and wish list markers. Marking
// a cigar needs view access to its humidor; the markers themselves are
// private to the marking user and survive permission changes, going stale
// rather than being revoked.
type ListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

func NewListService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService) *ListService {
	return &ListService{db: db, repomanager: m, access: access}
}

func (s *ListService) AddFavorite(ctx context.Context, actor *models.User, cigarID string) error {
	return s.add(ctx, actor, lists.KindFavorites, cigarID)
}

func (s *ListService) RemoveFavorite(ctx context.Context, actor *models.User, cigarID string) error {
	return s.repomanager.Lists(s.db).Remove(ctx, lists.KindFavorites, actor.ID, cigarID)
}

func (s *ListService) Favorites(ctx context.Context, actor *models.User) ([]*models.Cigar, error) {
	return s.repomanager.Lists(s.db).ListCigars(ctx, lists.KindFavorites, actor.ID)
}

func (s *ListService) AddWish(ctx context.Context, actor *models.User, cigarID string) error {
	return s.add(ctx, actor, lists.KindWishList, cigarID)
}

func (s *ListService) RemoveWish(ctx context.Context, actor *models.User, cigarID string) error {
	return s.repomanager.Lists(s.db).Remove(ctx, lists.KindWishList, actor.ID, cigarID)
}

func (s *ListService) WishList(ctx context.Context, actor *models.User) ([]*models.Cigar, error) {
	return s.repomanager.Lists(s.db).ListCigars(ctx, lists.KindWishList, actor.ID)
}

// add checks that the actor can at least view the cigar before marking it.
// Re-marking an already marked cigar is idempotent: the repository reports
// the duplicate as Conflict and it is swallowed here.
func (s *ListService) add(ctx context.Context, actor *models.User, kind lists.Kind, cigarID string) error {
	level, _, err := s.access.PermissionForCigar(ctx, s.db, actor.ID, cigarID)
	if err != nil {
		return err
	}
	if !level.CanView() {
		return common.ErrorNotFound
	}

	err = s.repomanager.Lists(s.db).Add(ctx, kind, actor.ID, cigarID)
	if errors.Is(err, common.ErrorConflict) {
		return nil
	}
	return err
}
