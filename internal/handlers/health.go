// Package handlers provides the admin HTTP endpoints served alongside
// the stdio MCP transport: health probes, Prometheus metrics, and a
// recent-audit listing.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
)

// VersionReporter is the slice of the ksctl client the health checks need.
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ksctl VersionReporter
	audit audit.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(ksctl VersionReporter, store audit.Store) *HealthHandler {
	return &HealthHandler{
		ksctl: ksctl,
		audit: store,
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// Liveness handles the /health endpoint (basic liveness check).
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Readiness handles the /ready endpoint. It runs ksctl version to prove
// the binary is runnable and the appliance is reachable, and pings the
// audit backend.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	services := make(map[string]string)
	allHealthy := true

	if _, err := h.ksctl.Version(ctx); err != nil {
		slog.Error("ksctl health check failed", "error", err)
		services["ksctl"] = "unhealthy"
		allHealthy = false
	} else {
		services["ksctl"] = "healthy"
	}

	if err := h.audit.Ping(ctx); err != nil {
		slog.Error("audit store health check failed", "error", err)
		services["audit"] = "unhealthy"
		allHealthy = false
	} else {
		services["audit"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
