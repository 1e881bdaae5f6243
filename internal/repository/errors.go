// Package repository holds the Entity Store: one repository per entity
// kind over database/sql, the unit-of-work helper, and the cascade
// executor that keeps references intact when a parent row is deleted.
//
// The sentinel errors below let handlers distinguish failure classes
// without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a row
// owned by someone else.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write would break a business rule such
// as adding the same favorite twice.  Handlers answer with HTTP 400.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when the store rejects a write on a unique
// index.  The validation layer normally catches these first; this covers
// the race between the check and the insert.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicate reports whether err is a unique-constraint violation from
// MySQL (error 1062) or SQLite.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// duplicateOr maps unique violations onto ErrDuplicate and returns every
// other error unchanged.
func duplicateOr(err error) error {
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}
