// Package models holds the persisted entity types shared by repositories
// and services.
package models

import "time"

// User is an authenticated principal. IsAdmin grants access to
// administrative operations only; it never implies visibility into other
// users' humidors.
type User struct {
	ID           string
	UserName     string
	Email        string
	FullName     string
	PasswordHash string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
