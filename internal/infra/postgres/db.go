package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// uniqueViolation is the SQLSTATE postgres reports when a uniqueness
// constraint rejects a row.
const uniqueViolation = "23505"

// Open builds a bun DB over the pgdriver connector.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// isUniqueViolation recognizes constraint rejections from both drivers in
// use: pgdriver under bun and pgx under the result repository.
func isUniqueViolation(err error) bool {
	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return driverErr.Field('C') == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
