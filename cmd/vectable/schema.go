package main

import (
	"context"
	"fmt"

	"github.com/helixml/vectable/infrastructure/persistence"
	"github.com/helixml/vectable/internal/log"
	"github.com/spf13/cobra"
)

func schemaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create vector_table_1 if it does not exist",
		Long: `Create vector_table_1 if it does not exist.

On PostgreSQL the pgvector extension is created first, and an existing table
is checked to hold 1536-dimension vectors. Existing data is never altered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd.Context(), flags)
		},
	}
}

func runSchema(ctx context.Context, flags *globalFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := log.Configure(cfg).Slog()

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err := persistence.EnsureSchema(ctx, db, logger); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("schema ready", "table", persistence.ProductTable)
	return nil
}
