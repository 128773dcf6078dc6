// Package audit records the ksctl invocations the server performs.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/config"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/metrics"
)

// Entry is one recorded ksctl invocation. Argv is stored with password
// values already redacted.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Tool       string    `json:"tool"`
	Operation  string    `json:"operation"`
	Argv       []string  `json:"argv"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists invocation records.
type Store interface {
	// Append writes one entry.
	Append(ctx context.Context, entry *Entry) error
	// List returns entries newest first, up to limit. A non-positive limit
	// returns everything.
	List(ctx context.Context, limit int) ([]*Entry, error)
	// Cleanup removes entries older than the given age.
	Cleanup(ctx context.Context, olderThan time.Duration) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the audit store the configuration names.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Audit.Backend {
	case "bolt":
		return NewBoltStore(cfg.AuditPath())
	case "postgres":
		return NewPostgresStore(ctx, cfg.Audit.DatabaseURL)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Audit.Backend)
	}
}

// NopStore discards every entry. It backs the "none" audit backend.
type NopStore struct{}

func (NopStore) Append(context.Context, *Entry) error { return nil }

func (NopStore) List(context.Context, int) ([]*Entry, error) { return nil, nil }

func (NopStore) Cleanup(context.Context, time.Duration) error { return nil }

func (NopStore) Ping(context.Context) error { return nil }

func (NopStore) Close() error { return nil }

// Recorder wraps a Store with asynchronous writes so invocation latency
// never depends on the audit backend. A nil Recorder is valid and records
// nothing.
type Recorder struct {
	store   Store
	backend string
}

// NewRecorder creates a Recorder over the given store. The backend name is
// only used as a metric label.
func NewRecorder(store Store, backend string) *Recorder {
	return &Recorder{store: store, backend: backend}
}

// Record writes the entry in the background with a bounded timeout. Missing
// IDs and timestamps are filled in.
func (r *Recorder) Record(entry *Entry) {
	if r == nil || r.store == nil {
		return
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.store.Append(ctx, entry); err != nil {
			metrics.AuditEntriesTotal.WithLabelValues(r.backend, "error").Inc()
			slog.Error("failed to record invocation", "operation", entry.Operation, "error", err)
			return
		}
		metrics.AuditEntriesTotal.WithLabelValues(r.backend, "ok").Inc()
	}()
}
