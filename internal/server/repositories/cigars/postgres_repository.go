package cigars

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

const cigarColumns = `id, humidor_id, name, brand, quantity, notes, image_key, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, cigar *models.Cigar) (*models.Cigar, error) {
	query :=
		`INSERT INTO cigars (humidor_id, name, brand, quantity, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		cigar.HumidorID, cigar.Name, cigar.Brand, cigar.Quantity, cigar.Notes).
		Scan(&cigar.ID, &cigar.CreatedAt, &cigar.UpdatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return cigar, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Cigar, error) {
	query := `SELECT ` + cigarColumns + ` FROM cigars WHERE id = $1`

	cigar := &models.Cigar{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&cigar.ID, &cigar.HumidorID,
		&cigar.Name, &cigar.Brand, &cigar.Quantity, &cigar.Notes, &cigar.ImageKey,
		&cigar.CreatedAt, &cigar.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}

	return cigar, nil
}

func (r *PostgresRepository) ListByHumidor(ctx context.Context, humidorID string) ([]*models.Cigar, error) {
	query := `SELECT ` + cigarColumns + ` FROM cigars WHERE humidor_id = $1 ORDER BY created_at`
	return r.list(ctx, query, humidorID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Cigar, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Cigar
	for rows.Next() {
		cigar := &models.Cigar{}
		if err := rows.Scan(&cigar.ID, &cigar.HumidorID, &cigar.Name, &cigar.Brand,
			&cigar.Quantity, &cigar.Notes, &cigar.ImageKey, &cigar.CreatedAt, &cigar.UpdatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, cigar)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, cigar *models.Cigar) error {
	query :=
		`UPDATE cigars SET name = $1, brand = $2, quantity = $3, notes = $4, updated_at = NOW()
		 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		cigar.Name, cigar.Brand, cigar.Quantity, cigar.Notes, cigar.ID)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, id string, imageKey string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cigars SET image_key = $1, updated_at = NOW() WHERE id = $2`, imageKey, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cigars WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Move(ctx context.Context, id string, destHumidorID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cigars SET humidor_id = $1, updated_at = NOW() WHERE id = $2`, destHumidorID, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM cigars c
		 INNER JOIN humidors h ON h.id = c.humidor_id
		 WHERE h.user_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
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
