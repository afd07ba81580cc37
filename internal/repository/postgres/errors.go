package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classifiers. Repositories translate these into domain
// sentinels at the query site; postgres error codes never leave this
// package.

// IsPgDuplicateError reports a unique violation (23505) - here that is
// almost always the single-root-per-owner partial index.
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsPgNoRowsError reports that a query matched nothing.
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError reports a foreign key violation (23503), raised
// when an insert or move references a folder that no longer exists.
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
