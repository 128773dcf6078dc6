package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// CSI manages Kubernetes storage groups for the CTE CSI driver.
type CSI struct {
	registry.Base
}

func NewCSI(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &CSI{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_csi",
		props(
			"domain", "auth_domain", "limit", "skip", "sort",
			"storage_group_name", "storage_group_identifier",
			"storage_class_name", "namespace_name",
			"ctecsi_description", "ctecsi_profile",
		),
		csiRequirements,
		map[string]dispatch.HandlerFunc{
			"csi_storage_group_create": r.create,
			"csi_storage_group_list":   r.list,
			"csi_storage_group_get":    r.get,
			"csi_storage_group_delete": r.delete,
			"csi_storage_group_modify": r.modify,
		},
	)
}

var csiRequirements = map[string]dispatch.Requirement{
	"csi_storage_group_create": {
		Required: []string{"storage_group_name", "storage_class_name", "namespace_name"},
		Optional: []string{"ctecsi_description", "ctecsi_profile"},
		Example: map[string]any{
			"action":             "csi_storage_group_create",
			"storage_group_name": "SG01",
			"storage_class_name": "encrypted-storage",
			"namespace_name":     "production",
		},
	},
	"csi_storage_group_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "storage_group_name", "storage_class_name", "namespace_name", "sort"},
		Example:  map[string]any{"action": "csi_storage_group_list", "limit": 20},
	},
	"csi_storage_group_get": {
		Required: []string{"storage_group_identifier"},
		Example:  map[string]any{"action": "csi_storage_group_get", "storage_group_identifier": "SG01"},
	},
	"csi_storage_group_delete": {
		Required: []string{"storage_group_identifier"},
		Example:  map[string]any{"action": "csi_storage_group_delete", "storage_group_identifier": "SG01"},
	},
	"csi_storage_group_modify": {
		Required: []string{"storage_group_identifier"},
		Optional: []string{"ctecsi_description", "ctecsi_profile"},
		Example: map[string]any{
			"action":                   "csi_storage_group_modify",
			"storage_group_identifier": "SG01",
			"ctecsi_description":       "Updated storage group",
		},
	},
}

func (r *CSI) create(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "csi", "k8s-storage-group", "create",
		"--storage-group-name", p.Get("storage_group_name"),
		"--storage-class-name", p.Get("storage_class_name"),
		"--namespace-name", p.Get("namespace_name"),
	}
	args = ksctl.Opt(args, p, "ctecsi_description", "ctecsi-description")
	args = ksctl.Opt(args, p, "ctecsi_profile", "ctecsi-profile")
	return r.Run(ctx, p, args)
}

func (r *CSI) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "csi", "k8s-storage-group", "list"}, p)
	args = ksctl.Opt(args, p, "storage_group_name", "storage-group-name")
	args = ksctl.Opt(args, p, "storage_class_name", "storage-class-name")
	args = ksctl.Opt(args, p, "namespace_name", "namespace-name")
	args = ksctl.Opt(args, p, "sort", "sort")
	return r.Run(ctx, p, args)
}

func (r *CSI) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "csi", "k8s-storage-group", "get",
		"--storage-group-identifier", p.Get("storage_group_identifier"),
	})
}

func (r *CSI) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "csi", "k8s-storage-group", "delete",
		"--storage-group-identifier", p.Get("storage_group_identifier"),
	})
}

func (r *CSI) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "csi", "k8s-storage-group", "modify",
		"--storage-group-identifier", p.Get("storage_group_identifier"),
	}
	args = ksctl.Set(args, p, "ctecsi_description", "ctecsi-description")
	args = ksctl.Opt(args, p, "ctecsi_profile", "ctecsi-profile")
	return r.Run(ctx, p, args)
}
