// Package testdb provides a shared test database helper for fast,
// realistic testing against a temporary SQLite database.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/helixml/vectable/infrastructure/persistence"
	"github.com/helixml/vectable/internal/database"
)

// New creates a temporary SQLite database with vector_table_1 in place.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	db := NewPlain(t)
	if err := persistence.EnsureSchema(context.Background(), db, nil); err != nil {
		t.Fatalf("testdb.New: ensure schema: %v", err)
	}
	return db
}

// NewPlain creates a temporary SQLite database without any tables.
// A file is used rather than :memory: so every pooled connection sees the
// same data.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	return Open(t, URL(t))
}

// URL returns a sqlite URL for a fresh file in the test's temp directory.
func URL(t *testing.T) string {
	t.Helper()
	return "sqlite:///" + filepath.Join(t.TempDir(), "test.db")
}

// Open opens url and closes it when the test finishes.
func Open(t *testing.T, url string) database.Database {
	t.Helper()
	db, err := database.NewDatabase(context.Background(), url)
	if err != nil {
		t.Fatalf("testdb.Open: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates a temporary SQLite database and executes the given
// SQL statements to set up a custom schema.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}
