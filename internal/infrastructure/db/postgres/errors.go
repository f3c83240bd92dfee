package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// string_data_right_truncation: a value exceeded its VARCHAR limit.
const codeValueTooLong = "22001"

func isValueTooLong(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeValueTooLong
}
