package brands

import (
	"context"

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

func (r *PostgresRepository) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	query :=
		`INSERT INTO brands (name)
		 VALUES ($1)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, brand.Name).Scan(&brand.ID, &brand.CreatedAt)
	if err != nil {
		// duplicate name maps to Conflict
		return nil, dbx.WrapError(err)
	}

	return brand, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Brand
	for rows.Next() {
		brand := &models.Brand{}
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.CreatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
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
