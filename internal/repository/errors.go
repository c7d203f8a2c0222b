package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means the requested row does not exist
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert hit a unique constraint
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
