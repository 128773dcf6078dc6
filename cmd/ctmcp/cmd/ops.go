package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
)

var opsCmd = &cobra.Command{
	Use:   "ops [tool]",
	Short: "List the operations each tool exposes",
	Long: `List every operation the MCP tools expose, with the parameters each
one requires.

Examples:
  ctmcp ops
  ctmcp ops cte_management
  ctmcp ops --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOps,
}

func init() {
	rootCmd.AddCommand(opsCmd)
}

func runOps(_ *cobra.Command, args []string) error {
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

	if jsonOutput {
		out := make(map[string][]string, len(facades))
		for _, f := range facades {
			out[f.Name()] = f.Operations()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, f := range facades {
		fmt.Printf("%s %s\n", Bold("%s", f.Name()), Dim("(%d operations)", len(f.Operations())))
		for _, op := range f.Operations() {
			req, _ := f.Requirement(op)
			line := "  " + op
			if summary := requirementSummary(req); summary != "" {
				line += "  " + Dim("%s", summary)
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	return nil
}

// requirementSummary renders an operation's parameter requirements in one
// line, matching how validation reports them.
func requirementSummary(req dispatch.Requirement) string {
	parts := make([]string, 0, 2)
	if len(req.Required) > 0 {
		parts = append(parts, "requires "+strings.Join(req.Required, ", "))
	}
	for _, group := range req.Either {
		parts = append(parts, "one of "+strings.Join(group, " | "))
	}
	return strings.Join(parts, "; ")
}
