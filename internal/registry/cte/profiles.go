package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Profiles manages CTE client profiles: logging, timeouts, and scan
// settings shared by the clients that reference them.
type Profiles struct {
	registry.Base
}

func NewProfiles(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Profiles{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_profiles",
		props(
			"domain", "auth_domain", "limit", "skip",
			"cte_profile_name", "cte_profile_identifier", "cte_profile_description",
			"concise_logging", "connect_timeout", "metadata_scan_interval",
			"partial_config_enable", "server_response_rate",
		),
		profileRequirements,
		map[string]dispatch.HandlerFunc{
			"profile_create": r.create,
			"profile_list":   r.list,
			"profile_get":    r.get,
			"profile_delete": r.delete,
			"profile_modify": r.modify,
		},
	)
}

var profileRequirements = map[string]dispatch.Requirement{
	"profile_create": {
		Required: []string{"cte_profile_name"},
		Optional: []string{
			"cte_profile_description", "concise_logging", "connect_timeout",
			"metadata_scan_interval", "partial_config_enable", "server_response_rate",
		},
		Example: map[string]any{
			"action":                  "profile_create",
			"cte_profile_name":        "StandardProfile",
			"cte_profile_description": "Default settings for production clients",
			"connect_timeout":         30,
		},
	},
	"profile_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "cte_profile_name"},
		Example:  map[string]any{"action": "profile_list", "limit": 20},
	},
	"profile_get": {
		Required: []string{"cte_profile_identifier"},
		Optional: []string{"cte_profile_name"},
		Example:  map[string]any{"action": "profile_get", "cte_profile_identifier": "StandardProfile"},
	},
	"profile_delete": {
		Required: []string{"cte_profile_identifier"},
		Optional: []string{"cte_profile_name"},
		Example:  map[string]any{"action": "profile_delete", "cte_profile_identifier": "StandardProfile"},
	},
	"profile_modify": {
		Required: []string{"cte_profile_identifier"},
		Optional: []string{
			"cte_profile_description", "concise_logging", "connect_timeout",
			"metadata_scan_interval", "partial_config_enable", "server_response_rate",
		},
		Example: map[string]any{
			"action":                 "profile_modify",
			"cte_profile_identifier": "StandardProfile",
			"connect_timeout":        60,
		},
	},
}

func (r *Profiles) optionFlags(args []string, p params.Bag) []string {
	args = ksctl.Opt(args, p, "cte_profile_description", "cte-profile-description")
	args = ksctl.Switch(args, p, "concise_logging", "concise-logging")
	args = ksctl.Set(args, p, "connect_timeout", "connect-timeout")
	args = ksctl.Set(args, p, "metadata_scan_interval", "metadata-scan-interval")
	args = ksctl.Switch(args, p, "partial_config_enable", "partial-config-enable")
	args = ksctl.Set(args, p, "server_response_rate", "server-response-rate")
	return args
}

func (r *Profiles) create(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "profiles", "create",
		"--cte-profile-name", p.Get("cte_profile_name"),
	}
	return r.Run(ctx, p, r.optionFlags(args, p))
}

func (r *Profiles) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "profiles", "list"}, p)
	args = ksctl.Opt(args, p, "cte_profile_name", "cte-profile-name")
	return r.Run(ctx, p, args)
}

func (r *Profiles) get(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "profiles", "get",
		"--cte-profile-identifier", p.Get("cte_profile_identifier"),
	}
	args = ksctl.Opt(args, p, "cte_profile_name", "cte-profile-name")
	return r.Run(ctx, p, args)
}

func (r *Profiles) delete(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "profiles", "delete",
		"--cte-profile-identifier", p.Get("cte_profile_identifier"),
	}
	args = ksctl.Opt(args, p, "cte_profile_name", "cte-profile-name")
	return r.Run(ctx, p, args)
}

func (r *Profiles) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "profiles", "modify",
		"--cte-profile-identifier", p.Get("cte_profile_identifier"),
	}
	return r.Run(ctx, p, r.optionFlags(args, p))
}
