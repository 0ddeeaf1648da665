package driver

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicatedEntry = 1062
)

// IsUniqueViolation reports whether err was raised by a unique constraint, for both postgres and mysql
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicatedEntry
	}
	return false
}
