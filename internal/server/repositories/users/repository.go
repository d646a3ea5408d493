// Package users persists user accounts.
package users

import (
	"context"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	Count(ctx context.Context) (int64, error)

	// CountActiveAdminsExcluding returns the number of active admins other
	// than the given user. The Admin Invariant Guard calls this inside the
	// same transaction as the mutation it protects.
	CountActiveAdminsExcluding(ctx context.Context, userID string) (int64, error)

	// UpdateProfile rewrites the mutable identity fields (username, email,
	// full name) of the given user. Duplicate handle or address is Conflict.
	UpdateProfile(ctx context.Context, user *models.User) error

	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	SetActive(ctx context.Context, userID string, isActive bool) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}
