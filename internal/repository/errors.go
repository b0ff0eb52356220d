package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1451
	errRowIsReferenced2 = 1217
	errNoReferencedRow  = 1452
	errNoReferencedRow2 = 1216
)

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return mysqlErrorNumber(err) == errDupEntry
}

// isReferencedRowError reports a delete blocked by a foreign key (1451/1217).
func isReferencedRowError(err error) bool {
	n := mysqlErrorNumber(err)
	return n == errRowIsReferenced || n == errRowIsReferenced2
}

// isMissingParentError reports an insert whose foreign key target is gone (1452/1216).
func isMissingParentError(err error) bool {
	n := mysqlErrorNumber(err)
	return n == errNoReferencedRow || n == errNoReferencedRow2
}

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}
