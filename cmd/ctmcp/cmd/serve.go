package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/handlers"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/mcp"
)

// auditCleanupInterval is how often serve prunes audit entries older than
// the configured retention.
const auditCleanupInterval = 6 * time.Hour

var (
	policyFile  string
	metricsAddr string
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"mcp-server"},
	Short:   "Start the MCP server (stdio)",
	Long: `Start the CipherTrust Manager MCP server for AI agent integration.
Communicates over stdin/stdout using JSON-RPC.

Configure in Claude Desktop (claude_desktop_config.json):
  {
    "mcpServers": {
      "ciphertrust": {
        "command": "ctmcp",
        "args": ["serve"]
      }
    }
  }

An optional admin listener serves /health, /ready, /metrics, and
/audit/recent when --metrics-addr (or server.metrics_addr) is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&policyFile, "policy", "", "access policy file (default ~/.ctmcp/policy.yaml)")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "admin listener address, e.g. 127.0.0.1:9090")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := audit.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()
	recorder := audit.NewRecorder(store, cfg.Audit.Backend)

	cli := ksctl.New(cfg, recorder)

	policyPath := policyFile
	if policyPath == "" {
		policyPath = filepath.Join(configDir(), "policy.yaml")
	}
	policy, err := mcp.LoadPolicy(policyPath)
	if err != nil {
		return fmt.Errorf("load access policy: %w", err)
	}
	if policy == nil {
		policy = mcp.DefaultPolicy()
	}

	var limiter *mcp.Limiter
	if cfg.RateLimit.Enabled {
		opt, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		limiter = mcp.NewLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		defer limiter.Close()
	}

	srv, err := mcp.NewCipherTrustMCPServer(cli, policy, limiter, cfg.CipherTrust.Password)
	if err != nil {
		return fmt.Errorf("build MCP server: %w", err)
	}

	if cfg.Audit.Backend != "none" && cfg.Audit.Retention > 0 {
		go func() {
			ticker := time.NewTicker(auditCleanupInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := store.Cleanup(ctx, cfg.Audit.Retention); err != nil {
						slog.Error("failed to cleanup audit entries", "error", err)
					}
				}
			}
		}()
	}

	addr := metricsAddr
	if addr == "" {
		addr = cfg.Server.MetricsAddr
	}
	var admin *http.Server
	if addr != "" {
		router := handlers.NewRouter(&handlers.Dependencies{
			Ksctl:  cli,
			Audit:  store,
			Logger: slog.Default(),
		})
		admin = &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		go func() {
			slog.Info("admin listener started", "addr", addr)
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("admin listener error", "error", err)
			}
		}()
	}

	slog.Info("starting MCP server",
		"version", mcp.Version,
		"ksctl", cli.Path(),
		"audit_backend", cfg.Audit.Backend,
	)

	runErr := srv.Run(ctx)

	if admin != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := admin.Shutdown(shutdownCtx); err != nil {
			slog.Error("admin listener shutdown failed", "error", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	slog.Info("MCP server stopped")
	return nil
}
