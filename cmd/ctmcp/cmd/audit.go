package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent ksctl invocations from the audit trail",
	Long: `Show the most recent ksctl invocations recorded by the MCP server,
newest first. Arguments are stored with credential values redacted.

Examples:
  ctmcp audit
  ctmcp audit --limit 100 --json`,
	RunE: runAuditLog,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "maximum number of entries to show")
}

func runAuditLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := audit.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()

	entries, err := store.List(ctx, auditLimit)
	if err != nil {
		return fmt.Errorf("list audit entries: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		Info("audit trail is empty")
		return nil
	}

	PrintTableHeader("TIME", "TOOL", "OPERATION", "STATUS", "MS")
	for _, e := range entries {
		status := SuccessIcon()
		if !e.Success {
			status = ErrorIcon()
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%d\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Tool,
			e.Operation,
			status,
			e.DurationMS,
		)
	}
	return nil
}
