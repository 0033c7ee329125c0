// Package persistence provides the product table model and its store.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/internal/database"
	"gorm.io/gorm"
)

// SQL specific to pgvector (extension and catalog).
const (
	pgvCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	pgvCheckDimension = `
SELECT a.atttypmod AS dimension
FROM pg_attribute a
JOIN pg_class c ON a.attrelid = c.oid
WHERE c.relname = ?
AND a.attname = 'vector'`
)

// ErrDimensionMismatch indicates the existing table stores vectors of a
// different dimension than product.Dimension.
var ErrDimensionMismatch = errors.New("vector column dimension mismatch")

// EnsureSchema creates vector_table_1 when it does not exist. On PostgreSQL it
// first enables the vector extension and afterwards checks that an existing
// table's vector column has product.Dimension components. Existing tables are
// never altered.
func EnsureSchema(ctx context.Context, db database.Database, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	gdb := db.Session(ctx)

	if db.IsPostgres() {
		if err := gdb.Exec(pgvCreateExtension).Error; err != nil {
			return fmt.Errorf("create vector extension: %w", err)
		}
	}

	migrator := gdb.Migrator()
	if !migrator.HasTable(&ProductModel{}) {
		if err := migrator.CreateTable(&ProductModel{}); err != nil {
			return fmt.Errorf("create table %s: %w", ProductTable, err)
		}
		logger.Info("created table", "table", ProductTable, "dimension", product.Dimension)
	}

	if db.IsPostgres() {
		return checkDimension(gdb)
	}
	return nil
}

func checkDimension(gdb *gorm.DB) error {
	var dimension int
	result := gdb.Raw(pgvCheckDimension, ProductTable).Scan(&dimension)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check vector dimension: %w", result.Error)
	}
	if result.RowsAffected > 0 && dimension != product.Dimension {
		return fmt.Errorf("%w: table has %d, want %d", ErrDimensionMismatch, dimension, product.Dimension)
	}
	return nil
}
