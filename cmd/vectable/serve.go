package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/helixml/vectable/infrastructure/api"
	"github.com/helixml/vectable/infrastructure/persistence"
	"github.com/helixml/vectable/internal/config"
	"github.com/helixml/vectable/internal/database"
	"github.com/helixml/vectable/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML file (if --config specified)
  3. .env file (if --env-file specified or .env exists in current directory)
  4. Environment variables
  5. Command line flags

Environment variables:
  HOST                   Server host to bind to (default: 0.0.0.0)
  PORT                   Server port to listen on (default: 8080)
  DB_URL                 Database URL (default: postgresql://postgres:postgres@db/pqvector_db)
  DB_MAX_OPEN_CONNS      Maximum open connections (default: 10)
  DB_MAX_IDLE_CONNS      Maximum idle connections (default: 5)
  DB_CONN_MAX_LIFETIME   Connection lifetime in seconds (default: 1800)
  DB_LOG_QUERIES         Log every SQL statement at DEBUG (default: false)
  LOG_LEVEL              Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT             Log format: pretty, json (default: pretty)
  CORS_ALLOWED_ORIGINS   Comma-separated list of allowed origins (default: *)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.AppConfigOption
			if host != "" {
				opts = append(opts, config.WithHost(host))
			}
			if port != 0 {
				opts = append(opts, config.WithPort(port))
			}
			return runServe(cmd.Context(), flags, opts...)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(ctx context.Context, flags *globalFlags, opts ...config.AppConfigOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(flags, opts...)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg).Slog()
	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting vectable", attrs...)

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

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, cfg, db, ln, logger)
}

// serve runs the API on ln until ctx is cancelled, then shuts it down within
// the configured timeout.
func serve(ctx context.Context, cfg config.AppConfig, db database.Database, ln net.Listener, logger *slog.Logger) error {
	server := api.NewAPIServer(ln.Addr().String(), db, cfg.CORSAllowedOrigins(), logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve(ln)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
