// Package repomanager binds repositories to a database handle. Services
// request repositories from the manager with either the pooled *sql.DB or a
// transaction, so the same repository code runs inside and outside dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/brands"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/cigars"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/humidors"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/lists"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/publicshares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/shares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Humidors(db dbx.DBTX) humidors.Repository
	Cigars(db dbx.DBTX) cigars.Repository
	Shares(db dbx.DBTX) shares.Repository
	PublicShares(db dbx.DBTX) publicshares.Repository
	Lists(db dbx.DBTX) lists.Repository
	Brands(db dbx.DBTX) brands.Repository
}
