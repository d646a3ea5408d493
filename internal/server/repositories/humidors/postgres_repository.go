package humidors

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

const humidorColumns = `id, user_id, name, description, image_key, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, humidor *models.Humidor) (*models.Humidor, error) {
	query :=
		`INSERT INTO humidors (user_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, humidor.UserID, humidor.Name, humidor.Description).
		Scan(&humidor.ID, &humidor.CreatedAt, &humidor.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return humidor, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Humidor, error) {
	query := `SELECT ` + humidorColumns + ` FROM humidors WHERE id = $1`

	humidor := &models.Humidor{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&humidor.ID, &humidor.UserID,
		&humidor.Name, &humidor.Description, &humidor.ImageKey, &humidor.CreatedAt, &humidor.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}

	return humidor, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Humidor, error) {
	query := `SELECT ` + humidorColumns + ` FROM humidors WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Humidor
	for rows.Next() {
		humidor := &models.Humidor{}
		if err := rows.Scan(&humidor.ID, &humidor.UserID, &humidor.Name,
			&humidor.Description, &humidor.ImageKey, &humidor.CreatedAt, &humidor.UpdatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, humidor)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) ListSharedWith(ctx context.Context, userID string) ([]*SharedHumidor, error) {
	query :=
		`SELECT h.id, h.user_id, h.name, h.description, h.image_key, h.created_at, h.updated_at, s.permission_level
		 FROM humidors h
		 INNER JOIN humidor_shares s ON s.humidor_id = h.id
		 WHERE s.user_id = $1
		 ORDER BY h.created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*SharedHumidor
	for rows.Next() {
		humidor := &models.Humidor{}
		var level string
		if err := rows.Scan(&humidor.ID, &humidor.UserID, &humidor.Name, &humidor.Description,
			&humidor.ImageKey, &humidor.CreatedAt, &humidor.UpdatedAt, &level); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, &SharedHumidor{Humidor: humidor, Level: models.PermissionLevel(level)})
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, humidor *models.Humidor) error {
	// Owner column is deliberately not part of the update; ownership moves
	// only through ReassignOwner.
	query := `UPDATE humidors SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, humidor.Name, humidor.Description, humidor.ID)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, id string, imageKey string) error {
	query := `UPDATE humidors SET image_key = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, imageKey, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM humidors WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	query := `UPDATE humidors SET user_id = $1, updated_at = NOW() WHERE user_id = $2`

	res, err := r.db.ExecContext(ctx, query, toUserID, fromUserID)
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	return moved, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return dbx.WrapError(err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
