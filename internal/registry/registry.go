// Package registry holds the shared plumbing for operation families. Each
// family (CTE policies, cluster nodes, scheduler configs, ...) embeds Base
// and builds an explicit dispatch table over its handler methods.
package registry

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

// Base carries the invoker shared by all operation families.
type Base struct {
	Invoker ksctl.Invoker
}

// Run executes an assembled argument vector, scoped to the call's domain
// parameters. On success it relays the parsed JSON payload when the CLI
// produced one and raw stdout otherwise. Failures surface as an
// InvocationError carrying the CLI's stderr and exit code.
func (b Base) Run(ctx context.Context, p params.Bag, args []string) (any, error) {
	res := b.Invoker.Execute(ctx, args, p.Get("domain"), p.Get("auth_domain"))
	if !res.Success {
		return nil, &dispatch.InvocationError{
			Message:  res.Error,
			Stderr:   res.Stderr,
			ExitCode: res.ExitCode,
		}
	}
	if res.Data != nil {
		return res.Data, nil
	}
	return res.Stdout, nil
}
