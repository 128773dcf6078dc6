package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Clients manages CTE clients and their guard points.
type Clients struct {
	registry.Base
}

func NewClients(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Clients{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_clients",
		props(
			"domain", "auth_domain", "limit", "skip", "description", "sort",
			"cte_client_name", "cte_client_identifier", "client_password",
			"password_creation_method", "comm_enabled", "reg_allowed",
			"cte_client_type", "cte_profile_identifier",
			"cte_client_locked", "system_locked", "client_mfa_enabled", "host_name",
			"guard_path_list", "guard_point_type", "guard_point_identifier",
			"cte_policy_identifier", "guard_enabled",
			"auto_mount_enabled", "cifs_enabled", "early_access",
			"preserve_sparse_regions", "mfa_enabled",
			"intelligent_protection", "is_idt_capable_device",
		),
		clientRequirements,
		map[string]dispatch.HandlerFunc{
			"client_create": r.create,
			"client_list":   r.list,
			"client_get":    r.get,
			"client_delete": r.delete,
			"client_modify": r.modify,

			"client_create_guardpoint":  r.createGuardPoint,
			"client_list_guardpoints":   r.listGuardPoints,
			"client_get_guardpoint":     r.getGuardPoint,
			"client_unguard_guardpoint": r.unguardGuardPoint,
			"client_modify_guardpoint":  r.modifyGuardPoint,
		},
	)
}

var clientRequirements = map[string]dispatch.Requirement{
	"client_create": {
		Required: []string{"cte_client_name"},
		Optional: []string{
			"client_password", "password_creation_method", "comm_enabled", "reg_allowed",
			"cte_client_type", "cte_profile_identifier", "description",
		},
		Example: map[string]any{
			"action":          "client_create",
			"cte_client_name": "WebServer01",
			"comm_enabled":    true,
			"reg_allowed":     true,
		},
	},
	"client_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "cte_client_name", "cte_client_type"},
		Example:  map[string]any{"action": "client_list", "limit": 20},
	},
	"client_get": {
		Required: []string{"cte_client_identifier"},
		Example:  map[string]any{"action": "client_get", "cte_client_identifier": "WebServer01"},
	},
	"client_delete": {
		Required: []string{"cte_client_identifier"},
		Example:  map[string]any{"action": "client_delete", "cte_client_identifier": "WebServer01"},
	},
	"client_modify": {
		Required: []string{"cte_client_identifier"},
		Optional: []string{
			"client_password", "password_creation_method", "comm_enabled", "reg_allowed",
			"cte_client_locked", "system_locked", "cte_profile_identifier",
			"host_name", "client_mfa_enabled",
		},
		Example: map[string]any{
			"action":                "client_modify",
			"cte_client_identifier": "WebServer01",
			"comm_enabled":          true,
		},
	},

	"client_create_guardpoint": {
		Required: []string{"cte_client_identifier", "guard_path_list", "guard_point_type"},
		Optional: []string{
			"cte_policy_identifier", "guard_enabled",
			"auto_mount_enabled", "cifs_enabled", "early_access",
			"preserve_sparse_regions", "mfa_enabled",
			"intelligent_protection", "is_idt_capable_device",
		},
		Example: map[string]any{
			"action":                "client_create_guardpoint",
			"cte_client_identifier": "WebServer01",
			"guard_path_list":       "/data/sensitive,/logs/audit",
			"guard_point_type":      "directory_auto",
			"cte_policy_identifier": "MyDataPolicy",
		},
	},
	"client_list_guardpoints": {
		Required: []string{"cte_client_identifier"},
		Optional: []string{"limit", "skip", "cte_policy_identifier", "sort"},
		Example: map[string]any{
			"action":                "client_list_guardpoints",
			"cte_client_identifier": "WebServer01",
		},
	},
	"client_get_guardpoint": {
		Required: []string{"cte_client_identifier", "guard_point_identifier"},
		Example: map[string]any{
			"action":                 "client_get_guardpoint",
			"cte_client_identifier":  "WebServer01",
			"guard_point_identifier": "gp-id-1",
		},
	},
	"client_unguard_guardpoint": {
		Required: []string{"cte_client_identifier", "guard_point_identifier"},
		Example: map[string]any{
			"action":                 "client_unguard_guardpoint",
			"cte_client_identifier":  "WebServer01",
			"guard_point_identifier": "gp-id-1",
		},
	},
	"client_modify_guardpoint": {
		Required: []string{"cte_client_identifier", "guard_point_identifier"},
		Optional: []string{"guard_enabled", "mfa_enabled"},
		Example: map[string]any{
			"action":                 "client_modify_guardpoint",
			"cte_client_identifier":  "WebServer01",
			"guard_point_identifier": "gp-id-1",
			"guard_enabled":          false,
		},
	},
}

// ---------------------------------------------------------------------------
// Client lifecycle
// ---------------------------------------------------------------------------

func (r *Clients) create(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "clients", "create",
		"--cte-client-name", p.Get("cte_client_name"),
	}
	args = ksctl.Opt(args, p, "client_password", "client-password")
	// GENERATE is the server default, so only a MANUAL request is passed on.
	if v := p.Get("password_creation_method"); v != "" && v != "GENERATE" {
		args = append(args, "--password-creation-method", v)
	}
	args = ksctl.Switch(args, p, "comm_enabled", "comm-enabled")
	args = ksctl.Switch(args, p, "reg_allowed", "reg-allowed")
	args = ksctl.Opt(args, p, "cte_client_type", "cte-client-type")
	args = ksctl.Opt(args, p, "cte_profile_identifier", "cte-profile-identifier")
	args = ksctl.Opt(args, p, "description", "description")
	return r.Run(ctx, p, args)
}

func (r *Clients) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "clients", "list"}, p)
	args = ksctl.Opt(args, p, "cte_client_name", "cte-client-name")
	args = ksctl.Opt(args, p, "cte_client_type", "cte-client-type")
	return r.Run(ctx, p, args)
}

func (r *Clients) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "clients", "get",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
	})
}

func (r *Clients) delete(ctx context.Context, p params.Bag) (any, error) {
	// --del-client removes the client record even when the agent never
	// checked in.
	return r.Run(ctx, p, []string{"cte", "clients", "delete",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
		"--del-client",
	})
}

func (r *Clients) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "clients", "modify",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
	}
	args = ksctl.Opt(args, p, "client_password", "client-password")
	args = ksctl.Opt(args, p, "password_creation_method", "password-creation-method")
	args = ksctl.Tri(args, p, "comm_enabled", "comm-enabled")
	args = ksctl.Tri(args, p, "reg_allowed", "reg-allowed")
	args = ksctl.Tri(args, p, "cte_client_locked", "cte-client-locked")
	args = ksctl.Tri(args, p, "system_locked", "system-locked")
	args = ksctl.Opt(args, p, "cte_profile_identifier", "cte-profile-identifier")
	args = ksctl.Opt(args, p, "host_name", "host-name")
	args = ksctl.Tri(args, p, "client_mfa_enabled", "client-mfa-enabled")
	return r.Run(ctx, p, args)
}

// ---------------------------------------------------------------------------
// Guard points
// ---------------------------------------------------------------------------

func (r *Clients) createGuardPoint(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "clients", "create-guardpoints",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
		"--guard-path-list", p.Get("guard_path_list"),
		"--guard-point-type", p.Get("guard_point_type"),
	}
	args = ksctl.Opt(args, p, "cte_policy_identifier", "cte-policy-identifier")
	// guard_enabled and preserve_sparse_regions default to true on the
	// server, so only an explicit false is worth sending.
	if p.Flag("guard_enabled") == params.FlagFalse {
		args = append(args, "--no-guard-enabled")
	}
	args = ksctl.Switch(args, p, "auto_mount_enabled", "auto-mount-enabled")
	args = ksctl.Switch(args, p, "cifs_enabled", "cifs-enabled")
	args = ksctl.Switch(args, p, "early_access", "early-access")
	if p.Flag("preserve_sparse_regions") == params.FlagFalse {
		args = append(args, "--no-preserve-sparse-regions")
	}
	args = ksctl.Switch(args, p, "mfa_enabled", "mfa-enabled")
	args = ksctl.Switch(args, p, "intelligent_protection", "intelligent-protection")
	args = ksctl.Switch(args, p, "is_idt_capable_device", "is-idt-capable-device")
	return r.Run(ctx, p, args)
}

func (r *Clients) listGuardPoints(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "clients", "list-guardpoints",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
	}
	args = ksctl.Page(args, p)
	args = ksctl.Opt(args, p, "cte_policy_identifier", "cte-policy-identifier")
	args = ksctl.Opt(args, p, "sort", "sort")
	return r.Run(ctx, p, args)
}

func (r *Clients) getGuardPoint(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "clients", "get-guardpoints",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
		"--guard-point-identifier", p.Get("guard_point_identifier"),
	})
}

func (r *Clients) unguardGuardPoint(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "clients", "unguard-guardpoints",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
		"--guard-point-identifier", p.Get("guard_point_identifier"),
	})
}

func (r *Clients) modifyGuardPoint(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "clients", "modify-guardpoints",
		"--cte-client-identifier", p.Get("cte_client_identifier"),
		"--guard-point-identifier", p.Get("guard_point_identifier"),
	}
	args = ksctl.Tri(args, p, "guard_enabled", "guard-enabled")
	args = ksctl.Tri(args, p, "mfa_enabled", "mfa-enabled")
	return r.Run(ctx, p, args)
}
