package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates the requested entity was not found.
var ErrNotFound = errors.New("entity not found")

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// IsUniqueViolation reports whether err is a driver error for a duplicate
// primary key or unique value. err is inspected, never altered.
func IsUniqueViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgUniqueViolation
	}
	if ext, ok := sqliteCode(err); ok {
		return ext == sqlite3.ErrConstraintPrimaryKey || ext == sqlite3.ErrConstraintUnique
	}
	return false
}

// IsNotNullViolation reports whether err is a driver error for a NULL written
// to a NOT NULL column.
func IsNotNullViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgNotNullViolation
	}
	if ext, ok := sqliteCode(err); ok {
		return ext == sqlite3.ErrConstraintNotNull
	}
	return false
}

// IsConstraintViolation reports whether err is any integrity constraint error.
func IsConstraintViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return len(code) == 5 && code[:2] == "23"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func pgCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

func sqliteCode(err error) (sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode, true
	}
	return 0, false
}
