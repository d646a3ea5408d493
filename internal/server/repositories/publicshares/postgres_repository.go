package publicshares

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

const shareColumns = `id, humidor_id, created_by, expires_at, include_favorites, include_wish_list, label, created_at`

func (r *PostgresRepository) Create(ctx context.Context, share *models.PublicShare) (*models.PublicShare, error) {
	query :=
		`INSERT INTO public_shares (id, humidor_id, created_by, expires_at, include_favorites, include_wish_list, label)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.ID, share.HumidorID, share.CreatedBy, share.ExpiresAt,
		share.IncludeFavorites, share.IncludeWishList, share.Label).
		Scan(&share.CreatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return share, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PublicShare, error) {
	query := `SELECT ` + shareColumns + ` FROM public_shares WHERE id = $1`

	share := &models.PublicShare{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&share.ID, &share.HumidorID,
		&share.CreatedBy, &share.ExpiresAt, &share.IncludeFavorites,
		&share.IncludeWishList, &share.Label, &share.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}

	return share, nil
}

func (r *PostgresRepository) ListByHumidor(ctx context.Context, humidorID string) ([]*models.PublicShare, error) {
	query := `SELECT ` + shareColumns + ` FROM public_shares WHERE humidor_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, humidorID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.PublicShare
	for rows.Next() {
		share := &models.PublicShare{}
		if err := rows.Scan(&share.ID, &share.HumidorID, &share.CreatedBy, &share.ExpiresAt,
			&share.IncludeFavorites, &share.IncludeWishList, &share.Label, &share.CreatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, share)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM public_shares WHERE id = $1`, id)
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
		`DELETE FROM public_shares
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
