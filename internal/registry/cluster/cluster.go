// Package cluster implements the cluster_management grouped tool: creating
// and joining CipherTrust Manager clusters and managing their nodes.
package cluster

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Description is the cluster_management tool description advertised to MCP
// clients.
const Description = "Manage CipherTrust Manager clusters (create, join, delete, info, summary, node management)"

// Cluster is the single operation family behind cluster_management.
// Cluster operations are node-level, so the schema carries no domain
// parameters; the configured default domain applies.
type Cluster struct {
	registry.Base
}

// New builds the cluster_management facade.
func New(inv ksctl.Invoker) (*dispatch.Facade, error) {
	reg, err := NewRegistry(inv)
	if err != nil {
		return nil, err
	}
	return dispatch.New("cluster_management", Description, reg)
}

func NewRegistry(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Cluster{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cluster",
		map[string]dispatch.Property{
			"host":           {Type: "string", Description: "IP address or hostname of this node"},
			"public_address": {Type: "string", Description: "Public address advertised to other cluster nodes"},
			"member":         {Type: "string", Description: "IP address of an existing cluster member to join"},
			"cachain":        {Type: "string", Description: "Path to the CA chain used for the node certificate"},
			"cafile":         {Type: "string", Description: "Path to the CA certificate file"},
			"cert":           {Type: "string", Description: "Node certificate (inline PEM)"},
			"certfile":       {Type: "string", Description: "Path to the node certificate file"},
			"mkek_blob":      {Type: "string", Description: "MKEK blob for joining a cluster with a shared master key"},
			"id":             {Type: "string", Description: "ID of the cluster node"},
			"force":          {Type: "boolean", Description: "Force node removal even when the node is unreachable", Default: false},
			"yes":            {Type: "boolean", Description: "Skip the confirmation prompt", Default: true},
			"allowlist":      {Type: "string", Description: "Filter nodes by allowlist"},
		},
		clusterRequirements,
		map[string]dispatch.HandlerFunc{
			"new":          r.create,
			"delete":       r.delete,
			"info":         r.info,
			"summary":      r.summary,
			"join":         r.join,
			"nodes_list":   r.nodesList,
			"nodes_get":    r.nodesGet,
			"nodes_delete": r.nodesDelete,
		},
	)
}

var clusterRequirements = map[string]dispatch.Requirement{
	"new": {
		Required: []string{"host"},
		Optional: []string{"public_address"},
		Example:  map[string]any{"action": "new", "host": "192.168.1.10"},
	},
	"delete": {
		Required: []string{},
		Optional: []string{"yes"},
		Example:  map[string]any{"action": "delete"},
	},
	"info": {
		Required: []string{},
		Example:  map[string]any{"action": "info"},
	},
	"summary": {
		Required: []string{},
		Example:  map[string]any{"action": "summary"},
	},
	"join": {
		Required: []string{"host", "member"},
		Optional: []string{"cachain", "cafile", "cert", "certfile", "mkek_blob", "public_address", "yes"},
		Example:  map[string]any{"action": "join", "host": "192.168.1.11", "member": "192.168.1.10"},
	},
	"nodes_list": {
		Required: []string{},
		Optional: []string{"allowlist"},
		Example:  map[string]any{"action": "nodes_list"},
	},
	"nodes_get": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "nodes_get", "id": "node-id-1"},
	},
	"nodes_delete": {
		Required: []string{"id"},
		Optional: []string{"force", "yes"},
		Example:  map[string]any{"action": "nodes_delete", "id": "node-id-1"},
	},
}

// confirm appends -y unless the caller explicitly opted out. Cluster
// surgery through an MCP client cannot answer an interactive prompt, so
// confirmation defaults to on.
func confirm(args []string, p params.Bag) []string {
	if p.Flag("yes") != params.FlagFalse {
		args = append(args, "-y")
	}
	return args
}

func (r *Cluster) create(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cluster", "new", "--host", p.Get("host")}
	args = ksctl.Opt(args, p, "public_address", "public-address")
	return r.Run(ctx, p, args)
}

func (r *Cluster) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, confirm([]string{"cluster", "delete"}, p))
}

func (r *Cluster) info(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cluster", "info"})
}

func (r *Cluster) summary(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cluster", "summary"})
}

func (r *Cluster) join(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cluster", "join",
		"--host", p.Get("host"),
		"--member", p.Get("member"),
	}
	args = ksctl.Opt(args, p, "cachain", "cachain")
	args = ksctl.Opt(args, p, "cafile", "cafile")
	args = ksctl.Opt(args, p, "cert", "cert")
	args = ksctl.Opt(args, p, "certfile", "certfile")
	args = ksctl.Opt(args, p, "mkek_blob", "mkek-blob")
	args = ksctl.Opt(args, p, "public_address", "public-address")
	return r.Run(ctx, p, confirm(args, p))
}

func (r *Cluster) nodesList(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cluster", "nodes", "list"}
	args = ksctl.Opt(args, p, "allowlist", "allowlist")
	return r.Run(ctx, p, args)
}

func (r *Cluster) nodesGet(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cluster", "nodes", "get", "--id", p.Get("id")})
}

func (r *Cluster) nodesDelete(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cluster", "nodes", "delete", "--id", p.Get("id")}
	args = ksctl.Switch(args, p, "force", "force")
	return r.Run(ctx, p, confirm(args, p))
}
