package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/mcp"
)

var inputSchema bool

var schemaCmd = &cobra.Command{
	Use:   "schema [tool]",
	Short: "Print tool documents as JSON",
	Long: `Print the operation documents of the MCP tools: operations,
parameter schemas, and per-action requirements with worked examples.

With --input the raw JSON Schema sent to MCP clients is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&inputSchema, "input", false, "print the MCP input schema instead of the document")
}

func runSchema(_ *cobra.Command, args []string) error {
	facades, err := buildFacades()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		f := findFacade(facades, args[0])
		if f == nil {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		facades = []*dispatch.Facade{f}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if inputSchema {
		for _, f := range facades {
			if err := enc.Encode(f.InputSchema()); err != nil {
				return err
			}
		}
		return nil
	}

	if len(facades) == 1 {
		return enc.Encode(facades[0].Describe())
	}
	docs := make([]dispatch.Document, 0, len(facades))
	for _, f := range facades {
		docs = append(docs, f.Describe())
	}
	return enc.Encode(docs)
}

// buildFacades constructs the tool facades without an audit recorder, for
// commands that only inspect them.
func buildFacades() ([]*dispatch.Facade, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return mcp.BuildFacades(ksctl.New(cfg, nil))
}

func findFacade(facades []*dispatch.Facade, name string) *dispatch.Facade {
	for _, f := range facades {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
