package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		notNull    bool
		constraint bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "not found", err: ErrNotFound},
		{
			name:       "postgres unique",
			err:        &pgconn.PgError{Code: "23505"},
			unique:     true,
			constraint: true,
		},
		{
			name:       "postgres not null",
			err:        &pgconn.PgError{Code: "23502"},
			notNull:    true,
			constraint: true,
		},
		{
			name:       "postgres foreign key",
			err:        &pgconn.PgError{Code: "23503"},
			constraint: true,
		},
		{
			name: "postgres syntax",
			err:  &pgconn.PgError{Code: "42601"},
		},
		{
			name:       "wrapped postgres unique",
			err:        fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			unique:     true,
			constraint: true,
		},
		{
			name:       "sqlite primary key",
			err:        sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey},
			unique:     true,
			constraint: true,
		},
		{
			name:       "sqlite unique",
			err:        sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			unique:     true,
			constraint: true,
		},
		{
			name:       "sqlite not null",
			err:        sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull},
			notNull:    true,
			constraint: true,
		},
		{
			name: "sqlite busy",
			err:  sqlite3.Error{Code: sqlite3.ErrBusy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.unique)
			}
			if got := IsNotNullViolation(tt.err); got != tt.notNull {
				t.Errorf("IsNotNullViolation() = %v, want %v", got, tt.notNull)
			}
			if got := IsConstraintViolation(tt.err); got != tt.constraint {
				t.Errorf("IsConstraintViolation() = %v, want %v", got, tt.constraint)
			}
		})
	}
}
