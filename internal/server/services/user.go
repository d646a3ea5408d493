package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/auth"
	"github.com/VictoryTek/humidor-sub001/internal/server/config"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login, and bearer-token verification.
// It is the identity and credential verifier: everything downstream trusts
// only the *models.User it produces.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The very first registered user becomes the
// administrator; the count check and the insert run in one transaction so
// two concurrent first registrations cannot both claim the admin flag.
func (s *UserService) Register(ctx context.Context, userName, email, fullName, password string) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)
	if userName == "" || email == "" || password == "" {
		return nil, common.ErrorInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}

		user = &models.User{
			UserName:     userName,
			Email:        email,
			FullName:     fullName,
			PasswordHash: string(hash),
			IsAdmin:      count == 0,
			IsActive:     true,
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns a signed access token with the
// authenticated user. Wrong handle and wrong password are indistinguishable
// to the caller; a deactivated account is rejected even with correct
// credentials.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a comparison anyway so the response time does not leak
			// whether the handle exists.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		return "", nil, common.ErrorInactiveAccount
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// dummyHash is a valid bcrypt digest compared against when the handle is
// unknown, keeping the failure path timing close to the known-handle path.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// VerifyToken resolves a bearer token to the current user record. It fails
// closed: a valid signature over a deleted or deactivated account still
// yields an error.
func (s *UserService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if !user.IsActive {
		return nil, common.ErrorInactiveAccount
	}

	return user, nil
}

// UpdateProfile rewrites the target's username, email and full name. Users
// may edit their own profile; admins may edit anyone's. Taking a handle or
// address already held by another account reads as Conflict.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, targetID, userName, email, fullName string) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)
	if userName == "" || email == "" {
		return nil, common.ErrorInvalidArgument
	}
	if actor.ID != targetID && !actor.IsAdmin {
		return nil, common.ErrorForbidden
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	updated := *user
	updated.UserName = userName
	updated.Email = email
	updated.FullName = fullName
	if err := repo.UpdateProfile(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// ChangePassword sets a new password for the target user. Users may change
// their own password; admins may reset anyone's.
func (s *UserService) ChangePassword(ctx context.Context, actor *models.User, targetID, newPassword string) error {
	if newPassword == "" {
		return common.ErrorInvalidArgument
	}
	if actor.ID != targetID && !actor.IsAdmin {
		return common.ErrorForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.repomanager.Users(s.db).UpdatePassword(ctx, targetID, string(hash))
}
