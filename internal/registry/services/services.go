// Package services implements the service_management grouped tool:
// status, restart, and full reset of CipherTrust Manager services.
package services

import (
	"context"
	"strconv"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Description is the service_management tool description advertised to
// MCP clients.
const Description = "Service management operations (status, restart, reset)"

// resetWarning rides along with every successful reset result. A reset
// wipes the appliance, so the caller is told in the payload itself.
const resetWarning = "WARNING: This operation will perform a full reset of CipherTrust Manager " +
	"and WIPE ALL DATA. This action cannot be undone."

// Services is the single operation family behind service_management.
type Services struct {
	registry.Base
}

// New builds the service_management facade.
func New(inv ksctl.Invoker) (*dispatch.Facade, error) {
	reg, err := NewRegistry(inv)
	if err != nil {
		return nil, err
	}
	return dispatch.New("service_management", Description, reg)
}

func NewRegistry(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Services{registry.Base{Invoker: inv}}
	return dispatch.NewTable("services",
		map[string]dispatch.Property{
			"service_names":  {Type: "string", Description: "Specific service name (e.g. nae-kmip, web)"},
			"overall_status": {Type: "boolean", Description: "Return the overall status of all services", Default: false},
			"yes":            {Type: "boolean", Description: "Automatically confirm the restart prompt", Default: true},
			"delay":          {Type: "integer", Description: "Delay in seconds before the operation starts", Default: 5},
		},
		serviceRequirements,
		map[string]dispatch.HandlerFunc{
			"status":  r.status,
			"restart": r.restart,
			"reset":   r.reset,
		},
	)
}

var serviceRequirements = map[string]dispatch.Requirement{
	"status": {
		Required: []string{},
		Optional: []string{"service_names", "overall_status"},
		Example:  map[string]any{"action": "status", "overall_status": true},
	},
	"restart": {
		Required: []string{},
		Optional: []string{"service_names", "yes", "delay"},
		Example:  map[string]any{"action": "restart", "service_names": "web"},
	},
	"reset": {
		Required: []string{},
		Optional: []string{"delay"},
		Example:  map[string]any{"action": "reset"},
	},
}

func (r *Services) status(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"services", "status"}
	if p.True("overall_status") {
		args = append(args, "--overall-status")
	} else if v, ok := p.String("service_names"); ok {
		args = append(args, "--service-names", v)
	}
	return r.Run(ctx, p, args)
}

func (r *Services) restart(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"services", "restart"}
	args = ksctl.Opt(args, p, "service_names", "service-names")
	if p.Flag("yes") != params.FlagFalse {
		args = append(args, "--yes")
	}
	args = append(args, "--delay", strconv.Itoa(p.IntOr("delay", 5)))
	return r.Run(ctx, p, args)
}

// reset returns the result envelope rather than the bare payload so the
// data-loss warning always reaches the caller.
func (r *Services) reset(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"services", "reset", "--delay", strconv.Itoa(p.IntOr("delay", 5))}
	res := r.Invoker.Execute(ctx, args, p.Get("domain"), p.Get("auth_domain"))
	if !res.Success {
		return nil, &dispatch.InvocationError{
			Message:  res.Error,
			Stderr:   res.Stderr,
			ExitCode: res.ExitCode,
		}
	}
	out := map[string]any{"warning": resetWarning}
	if res.Data != nil {
		out["data"] = res.Data
	} else {
		out["stdout"] = res.Stdout
	}
	return out, nil
}
