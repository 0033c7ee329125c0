package api

import (
	"context"
	"net/http"
	"time"

	"github.com/helixml/vectable/infrastructure/api/middleware"
	"github.com/helixml/vectable/internal/database"
)

const healthTimeout = 2 * time.Second

// HealthResponse is the body of /health and /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	OpenConns  int    `json:"open_connections"`
	InUseConns int    `json:"in_use_connections"`
	Error      string `json:"error,omitempty"`
}

// HealthHandler reports whether the connection pool can reach the database.
type HealthHandler struct {
	db database.Database
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db database.Database) HealthHandler {
	return HealthHandler{db: db}
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	open, inUse := h.db.Stats()
	resp := HealthResponse{
		Status:     "healthy",
		Database:   "ok",
		OpenConns:  open,
		InUseConns: inUse,
	}

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		resp.Error = err.Error()
		middleware.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}
