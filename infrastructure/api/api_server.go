package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apimiddleware "github.com/helixml/vectable/infrastructure/api/middleware"
	v1 "github.com/helixml/vectable/infrastructure/api/v1"
	"github.com/helixml/vectable/internal/database"
)

// DefaultRequestTimeout bounds each API request.
const DefaultRequestTimeout = 60 * time.Second

// APIServer serves the product API over one shared connection pool.
type APIServer struct {
	db          database.Database
	logger      *slog.Logger
	corsOrigins []string
	server      Server
}

// NewAPIServer creates an APIServer listening on addr with every route
// mounted. corsOrigins lists the origins allowed to call the API; none
// disables CORS.
func NewAPIServer(addr string, db database.Database, corsOrigins []string, logger *slog.Logger) *APIServer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &APIServer{
		db:          db,
		logger:      logger,
		corsOrigins: corsOrigins,
		server:      NewServer(addr, logger),
	}
	a.mountRoutes(a.server.Router())
	return a
}

// mountRoutes wires the health checks and v1 API routes on router.
func (a *APIServer) mountRoutes(router chi.Router) {
	router.Use(apimiddleware.Logging(a.logger))
	router.Use(apimiddleware.CORS(a.corsOrigins))

	health := NewHealthHandler(a.db)
	router.Get("/health", health.ServeHTTP)
	router.Get("/healthz", health.ServeHTTP)

	products := v1.NewProductsRouter(a.logger)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(DefaultRequestTimeout))
		r.Use(apimiddleware.Session(a.db, a.logger))
		r.Mount("/products", products.Routes())
	})
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	return a.server.Router()
}

// ListenAndServe listens on the configured address and serves until Shutdown.
func (a *APIServer) ListenAndServe() error {
	return a.server.Start()
}

// Serve serves on ln until Shutdown.
func (a *APIServer) Serve(ln net.Listener) error {
	return a.server.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
