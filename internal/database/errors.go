package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

// IsDuplicateKey reports whether err is a unique-constraint violation from
// MySQL/MariaDB (1062) or PostgreSQL (23505).
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code) == pgUniqueViolation
	}
	return false
}
