package dbx

import (
	"errors"
	"fmt"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// WrapError translates driver-level failures into the service error
// taxonomy. Unique violations read as Conflict. A malformed id (22P02,
// invalid text representation of a uuid column) or a broken reference
// (23503) cannot match any row, so both read as NotFound instead of
// surfacing as an infrastructure error. Anything else is wrapped as-is.
func WrapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return common.ErrorConflict
		case "22P02", "23503":
			return common.ErrorNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}
