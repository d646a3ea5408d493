package repomanager

import (
	"context"
	"database/sql"

	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/migrations"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/brands"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/cigars"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/humidors"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/lists"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/publicshares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/shares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Humidors(db dbx.DBTX) humidors.Repository {
	return humidors.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Cigars(db dbx.DBTX) cigars.Repository {
	return cigars.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Shares(db dbx.DBTX) shares.Repository {
	return shares.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PublicShares(db dbx.DBTX) publicshares.Repository {
	return publicshares.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Lists(db dbx.DBTX) lists.Repository {
	return lists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Brands(db dbx.DBTX) brands.Repository {
	return brands.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
