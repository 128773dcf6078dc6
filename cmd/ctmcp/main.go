// Package main is the entry point for the CipherTrust Manager MCP CLI.
package main

import (
	"os"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/cmd/ctmcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
