package shares

import (
	"context"
	"database/sql"
	"errors"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shareColumns = `id, humidor_id, user_id, granted_by, permission_level, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, share *models.HumidorShare) (*models.HumidorShare, error) {
	query :=
		`INSERT INTO humidor_shares (humidor_id, user_id, granted_by, permission_level)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.HumidorID, share.UserID, share.GrantedBy, string(share.Level)).
		Scan(&share.ID, &share.CreatedAt, &share.UpdatedAt)
	if err != nil {
		// unique (humidor_id, user_id): the DB-level second line of
		// defense for the one-active-share invariant maps to Conflict
		return nil, dbx.WrapError(err)
	}

	return share, nil
}

func (r *PostgresRepository) Get(ctx context.Context, humidorID, userID string) (*models.HumidorShare, error) {
	query := `SELECT ` + shareColumns + ` FROM humidor_shares WHERE humidor_id = $1 AND user_id = $2`
	return scanShare(r.db.QueryRowContext(ctx, query, humidorID, userID))
}

func (r *PostgresRepository) ListByHumidor(ctx context.Context, humidorID string) ([]*models.HumidorShare, error) {
	query := `SELECT ` + shareColumns + ` FROM humidor_shares WHERE humidor_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, humidorID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.HumidorShare
	for rows.Next() {
		share := &models.HumidorShare{}
		var level string
		if err := rows.Scan(&share.ID, &share.HumidorID, &share.UserID, &share.GrantedBy,
			&level, &share.CreatedAt, &share.UpdatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		share.Level = models.PermissionLevel(level)
		result = append(result, share)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateLevel(ctx context.Context, humidorID, userID string, level models.PermissionLevel) (*models.HumidorShare, error) {
	query :=
		`UPDATE humidor_shares SET permission_level = $1, updated_at = NOW()
		 WHERE humidor_id = $2 AND user_id = $3
		 RETURNING ` + shareColumns

	return scanShare(r.db.QueryRowContext(ctx, query, string(level), humidorID, userID))
}

func (r *PostgresRepository) Delete(ctx context.Context, humidorID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM humidor_shares WHERE humidor_id = $1 AND user_id = $2`, humidorID, userID)
	if err != nil {
		return dbx.WrapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return dbx.WrapError(err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	query :=
		`DELETE FROM humidor_shares
		 WHERE humidor_id IN (SELECT id FROM humidors WHERE user_id = $1)`

	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	return removed, nil
}

func scanShare(row *sql.Row) (*models.HumidorShare, error) {
	share := &models.HumidorShare{}
	var level string
	err := row.Scan(&share.ID, &share.HumidorID, &share.UserID, &share.GrantedBy,
		&level, &share.CreatedAt, &share.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	share.Level = models.PermissionLevel(level)
	return share, nil
}
