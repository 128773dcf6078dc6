package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/middleware"
)

// Dependencies holds all the dependencies needed for handlers.
type Dependencies struct {
	Ksctl  VersionReporter
	Audit  audit.Store
	Logger *slog.Logger
}

// NewRouter creates and configures the admin HTTP router.
func NewRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	healthHandler := NewHealthHandler(deps.Ksctl, deps.Audit)
	auditHandler := NewAuditHandler(deps.Audit)

	r.Get("/health", healthHandler.Liveness)
	r.Get("/ready", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/audit/recent", auditHandler.Recent)

	return r
}
