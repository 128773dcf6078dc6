package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// ClientGroups manages CTE client groups.
type ClientGroups struct {
	registry.Base
}

func NewClientGroups(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &ClientGroups{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_client_groups",
		props(
			"domain", "auth_domain", "limit", "skip",
			"client_group_name", "client_group_identifier",
			"client_group_description", "client_group_password",
			"cluster_type", "password_creation_method", "comm_enabled",
			"cte_client_locked", "system_locked", "cte_profile_identifier",
		),
		clientGroupRequirements,
		map[string]dispatch.HandlerFunc{
			"client_group_create": r.create,
			"client_group_list":   r.list,
			"client_group_get":    r.get,
			"client_group_delete": r.delete,
			"client_group_modify": r.modify,
		},
	)
}

var clientGroupRequirements = map[string]dispatch.Requirement{
	"client_group_create": {
		Required: []string{"client_group_name"},
		Optional: []string{
			"cluster_type", "client_group_description", "client_group_password",
			"password_creation_method", "comm_enabled", "cte_profile_identifier",
		},
		Example: map[string]any{
			"action":                   "client_group_create",
			"client_group_name":        "WebTier",
			"client_group_description": "Web tier CTE clients",
		},
	},
	"client_group_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "client_group_name", "cluster_type"},
		Example:  map[string]any{"action": "client_group_list", "limit": 20},
	},
	"client_group_get": {
		Required: []string{"client_group_identifier"},
		Example:  map[string]any{"action": "client_group_get", "client_group_identifier": "WebTier"},
	},
	"client_group_delete": {
		Required: []string{"client_group_identifier"},
		Example:  map[string]any{"action": "client_group_delete", "client_group_identifier": "WebTier"},
	},
	"client_group_modify": {
		Required: []string{"client_group_identifier"},
		Optional: []string{
			"client_group_description", "client_group_password",
			"password_creation_method", "comm_enabled",
			"cte_client_locked", "system_locked", "cte_profile_identifier",
		},
		Example: map[string]any{
			"action":                   "client_group_modify",
			"client_group_identifier":  "WebTier",
			"client_group_description": "Updated web tier group",
		},
	},
}

func (r *ClientGroups) create(ctx context.Context, p params.Bag) (any, error) {
	clusterType := p.Get("cluster_type")
	if clusterType == "" {
		clusterType = "NON-CLUSTER"
	}
	args := []string{"cte", "client-groups", "create",
		"--client-group-name", p.Get("client_group_name"),
		"--cluster-type", clusterType,
	}
	args = ksctl.Opt(args, p, "client_group_description", "client-group-description")
	args = ksctl.Opt(args, p, "client_group_password", "client-group-password")
	if v := p.Get("password_creation_method"); v != "" && v != "GENERATE" {
		args = append(args, "--password-creation-method", v)
	}
	args = ksctl.Switch(args, p, "comm_enabled", "comm-enabled")
	args = ksctl.Opt(args, p, "cte_profile_identifier", "cte-profile-identifier")
	return r.Run(ctx, p, args)
}

func (r *ClientGroups) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "client-groups", "list"}, p)
	args = ksctl.Opt(args, p, "client_group_name", "client-group-name")
	args = ksctl.Opt(args, p, "cluster_type", "cluster-type")
	return r.Run(ctx, p, args)
}

func (r *ClientGroups) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "client-groups", "get",
		"--client-group-identifier", p.Get("client_group_identifier"),
	})
}

func (r *ClientGroups) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "client-groups", "delete",
		"--client-group-identifier", p.Get("client_group_identifier"),
	})
}

func (r *ClientGroups) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "client-groups", "modify",
		"--client-group-identifier", p.Get("client_group_identifier"),
	}
	args = ksctl.Set(args, p, "client_group_description", "client-group-description")
	args = ksctl.Opt(args, p, "client_group_password", "client-group-password")
	args = ksctl.Opt(args, p, "password_creation_method", "password-creation-method")
	args = ksctl.Tri(args, p, "comm_enabled", "comm-enabled")
	args = ksctl.Tri(args, p, "cte_client_locked", "cte-client-locked")
	args = ksctl.Tri(args, p, "system_locked", "system-locked")
	args = ksctl.Opt(args, p, "cte_profile_identifier", "cte-profile-identifier")
	return r.Run(ctx, p, args)
}
