package cte

import (
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
)

// Description is the cte_management tool description advertised to MCP
// clients.
const Description = "CTE (CipherTrust Transparent Encryption) management operations. " +
	"Supports policies, user sets, process sets, resource sets, clients, client groups, " +
	"profiles, and CSI storage groups. Select the operation with the action parameter; " +
	"call describe_operations for per-action parameter requirements and worked examples."

// New builds the cte_management facade over all CTE operation families.
func New(inv ksctl.Invoker) (*dispatch.Facade, error) {
	builders := []func(ksctl.Invoker) (*dispatch.Table, error){
		NewPolicies,
		NewUserSets,
		NewProcessSets,
		NewResourceSets,
		NewClients,
		NewClientGroups,
		NewProfiles,
		NewCSI,
	}
	regs := make([]dispatch.Registry, 0, len(builders))
	for _, build := range builders {
		reg, err := build(inv)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return dispatch.New("cte_management", Description, regs...)
}
