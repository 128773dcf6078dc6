// Package cmd provides the CLI commands for ctmcp.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/config"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/logging"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/mcp"
)

var (
	cfgFile    string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "ctmcp",
	Short: "CipherTrust Manager MCP server",
	Long: `ctmcp bridges AI agents to Thales CipherTrust Manager by exposing
grouped ksctl operations as Model Context Protocol tools.

Get started:
  ctmcp configure          Write the appliance connection settings
  ctmcp doctor             Check ksctl, connectivity, and the audit store
  ctmcp serve              Start the MCP server on stdio

Examples:
  ctmcp configure
  ctmcp serve --metrics-addr 127.0.0.1:9090
  ctmcp ops cte_management
  ctmcp schema cluster_management`,
	SilenceUsage: true,
	Version:      mcp.Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.ctmcp/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the configuration and wires up structured logging. The
// --verbose flag overrides the configured log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logging.Setup(level)

	return cfg, nil
}

// configDir returns the directory holding the config file, the access
// policy, and the default audit database.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ctmcp"
	}
	return filepath.Join(home, ".ctmcp")
}
