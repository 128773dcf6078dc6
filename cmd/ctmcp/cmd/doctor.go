package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local setup",
	Long: `Check that ksctl is runnable, the appliance connection settings are
present, and the audit store (and Redis, when rate limiting is enabled)
is reachable.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	checks := []checkResult{{Name: "config", Status: "ok"}}

	if cfg.CipherTrust.URL == "" && cfg.Ksctl.ConfigFile == "" {
		checks = append(checks, checkResult{
			Name:   "connection",
			Status: "warn",
			Detail: "no appliance settings; set ciphertrust.url or ksctl.config_file",
		})
	} else {
		checks = append(checks, checkResult{Name: "connection", Status: "ok"})
	}

	cli := ksctl.New(cfg, nil)
	if version, err := cli.Version(ctx); err != nil {
		checks = append(checks, checkResult{Name: "ksctl", Status: "fail", Detail: err.Error()})
	} else {
		checks = append(checks, checkResult{Name: "ksctl", Status: "ok", Detail: strings.TrimSpace(version)})
	}

	store, err := audit.Open(ctx, cfg)
	if err != nil {
		checks = append(checks, checkResult{Name: "audit", Status: "fail", Detail: err.Error()})
	} else {
		if err := store.Ping(ctx); err != nil {
			checks = append(checks, checkResult{Name: "audit", Status: "fail", Detail: err.Error()})
		} else {
			checks = append(checks, checkResult{Name: "audit", Status: "ok", Detail: cfg.Audit.Backend})
		}
		store.Close()
	}

	if cfg.RateLimit.Enabled {
		opt, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			checks = append(checks, checkResult{Name: "redis", Status: "fail", Detail: err.Error()})
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				checks = append(checks, checkResult{Name: "redis", Status: "fail", Detail: err.Error()})
			} else {
				checks = append(checks, checkResult{Name: "redis", Status: "ok"})
			}
			client.Close()
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checks); err != nil {
			return err
		}
	} else {
		for _, c := range checks {
			icon := SuccessIcon()
			switch c.Status {
			case "warn":
				icon = WarningIcon()
			case "fail":
				icon = ErrorIcon()
			}
			line := fmt.Sprintf("%s %s", icon, c.Name)
			if c.Detail != "" {
				line += " " + Dim("%s", c.Detail)
			}
			fmt.Println(line)
		}
	}

	failed := 0
	for _, c := range checks {
		if c.Status == "fail" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
