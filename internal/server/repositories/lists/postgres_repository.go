package lists

import (
	"context"
	"fmt"

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

// table maps the marker kind to its table name. Kind is a closed enum, so
// this never interpolates caller input.
func table(kind Kind) string {
	if kind == KindWishList {
		return "wish_list"
	}
	return "favorites"
}

func (r *PostgresRepository) Add(ctx context.Context, kind Kind, userID, cigarID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, cigar_id) VALUES ($1, $2)`, table(kind))

	if _, err := r.db.ExecContext(ctx, query, userID, cigarID); err != nil {
		// already marked reads as Conflict, a vanished cigar as NotFound
		return dbx.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, kind Kind, userID, cigarID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND cigar_id = $2`, table(kind))

	res, err := r.db.ExecContext(ctx, query, userID, cigarID)
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

const cigarColumns = `c.id, c.humidor_id, c.name, c.brand, c.quantity, c.notes, c.image_key, c.created_at, c.updated_at`

func (r *PostgresRepository) ListCigars(ctx context.Context, kind Kind, userID string) ([]*models.Cigar, error) {
	query := fmt.Sprintf(
		`SELECT `+cigarColumns+` FROM cigars c
		 INNER JOIN %s m ON m.cigar_id = c.id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at`, table(kind))

	return r.listCigars(ctx, query, userID)
}

func (r *PostgresRepository) ListCigarsForHumidor(ctx context.Context, kind Kind, userID, humidorID string) ([]*models.Cigar, error) {
	query := fmt.Sprintf(
		`SELECT `+cigarColumns+` FROM cigars c
		 INNER JOIN %s m ON m.cigar_id = c.id
		 WHERE m.user_id = $1 AND c.humidor_id = $2
		 ORDER BY m.created_at`, table(kind))

	return r.listCigars(ctx, query, userID, humidorID)
}

func (r *PostgresRepository) listCigars(ctx context.Context, query string, args ...any) ([]*models.Cigar, error) {
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
