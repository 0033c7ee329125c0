// Package main is the entry point for the vectable CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/helixml/vectable/internal/config"
	"github.com/helixml/vectable/internal/database"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand that touches the database.
type globalFlags struct {
	envFile    string
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "vectable",
		Short:         "Product vector table service",
		Long:          `vectable stores products with 1536-dimension embeddings in vector_table_1 and serves them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	pf.StringVar(&flags.configFile, "config", "", "Path to YAML config file")
	pf.StringVar(&flags.dbURL, "db-url", "", "Database URL (overrides DB_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: pretty, json")

	cmd.AddCommand(serveCmd(&flags))
	cmd.AddCommand(schemaCmd(&flags))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the YAML file, .env file and
// environment, then applies flag overrides and validates the result.
func loadConfig(flags *globalFlags, extra ...config.AppConfigOption) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(flags.envFile, flags.configFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	var opts []config.AppConfigOption
	if flags.dbURL != "" {
		opts = append(opts, config.WithDBURL(flags.dbURL))
	}
	if flags.logLevel != "" {
		opts = append(opts, config.WithLogLevel(flags.logLevel))
	}
	if flags.logFormat != "" {
		opts = append(opts, config.WithLogFormat(config.LogFormat(flags.logFormat)))
	}
	cfg = cfg.Apply(append(opts, extra...)...)

	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, err
	}
	return cfg, nil
}

// openDatabase opens the shared pool and applies the configured pool limits.
func openDatabase(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (database.Database, error) {
	db, err := database.NewDatabase(ctx, cfg.DBURL(),
		database.WithLogger(logger.With("component", "database")),
		database.WithQueryLogging(cfg.DBLogQueries()),
	)
	if err != nil {
		return database.Database{}, err
	}
	if err := db.ConfigurePool(cfg.DBMaxOpenConns(), cfg.DBMaxIdleConns(), cfg.DBConnMaxLifetime()); err != nil {
		_ = db.Close()
		return database.Database{}, fmt.Errorf("configure pool: %w", err)
	}
	return db, nil
}
