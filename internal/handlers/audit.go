package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler serves the recent invocation audit trail.
type AuditHandler struct {
	store audit.Store
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(store audit.Store) *AuditHandler {
	return &AuditHandler{store: store}
}

// Recent handles GET /audit/recent and returns the newest entries first.
// The limit query parameter caps the listing.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		slog.Error("audit listing failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "audit store unavailable"})
		return
	}
	if entries == nil {
		entries = []*audit.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}
