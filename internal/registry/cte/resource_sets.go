package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// ResourceSets manages CTE resource sets and their membership.
type ResourceSets struct {
	registry.Base
}

func NewResourceSets(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &ResourceSets{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_resource_sets",
		props(
			"domain", "auth_domain", "limit", "skip", "search",
			"resource_set_identifier", "resource_set_name",
			"resource_json", "resource_json_file", "resource_index", "resource_index_list",
		),
		resourceSetRequirements,
		map[string]dispatch.HandlerFunc{
			"resource_set_create":          r.create,
			"resource_set_list":            r.list,
			"resource_set_get":             r.get,
			"resource_set_delete":          r.delete,
			"resource_set_modify":          r.modify,
			"resource_set_add_resources":   r.addResources,
			"resource_set_delete_resource": r.deleteResource,
			"resource_set_update_resource": r.updateResource,
			"resource_set_list_resources":  r.listResources,
			"resource_set_list_policies":   r.listPolicies,
		},
	)
}

var resourceSetRequirements = map[string]dispatch.Requirement{
	"resource_set_create": {
		Either: [][]string{{"resource_json", "resource_json_file"}},
		Example: map[string]any{
			"action":        "resource_set_create",
			"resource_json": `{"name": "RSet01", "description": "Sensitive data directories", "resources": [{"directory": "/data/sensitive", "file": "*", "include_subfolders": true}]}`,
		},
	},
	"resource_set_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "resource_set_name"},
		Example:  map[string]any{"action": "resource_set_list", "limit": 20},
	},
	"resource_set_get": {
		Required: []string{"resource_set_identifier"},
		Example:  map[string]any{"action": "resource_set_get", "resource_set_identifier": "RSet01"},
	},
	"resource_set_delete": {
		Required: []string{"resource_set_identifier"},
		Example:  map[string]any{"action": "resource_set_delete", "resource_set_identifier": "RSet01"},
	},
	"resource_set_modify": {
		Required: []string{"resource_set_identifier"},
		Either:   [][]string{{"resource_json", "resource_json_file"}},
		Example: map[string]any{
			"action":                  "resource_set_modify",
			"resource_set_identifier": "RSet01",
			"resource_json":           `{"description": "Updated resource set"}`,
		},
	},
	"resource_set_add_resources": {
		Required: []string{"resource_set_identifier", "resource_json_file"},
		Example: map[string]any{
			"action":                  "resource_set_add_resources",
			"resource_set_identifier": "RSet01",
			"resource_json_file":      "/tmp/resources.json",
		},
	},
	"resource_set_delete_resource": {
		Required: []string{"resource_set_identifier", "resource_index_list"},
		Example: map[string]any{
			"action":                  "resource_set_delete_resource",
			"resource_set_identifier": "RSet01",
			"resource_index_list":     "0,1",
		},
	},
	"resource_set_update_resource": {
		Required: []string{"resource_set_identifier", "resource_index", "resource_json_file"},
		Example: map[string]any{
			"action":                  "resource_set_update_resource",
			"resource_set_identifier": "RSet01",
			"resource_index":          "0",
			"resource_json_file":      "/tmp/resource.json",
		},
	},
	"resource_set_list_resources": {
		Required: []string{"resource_set_identifier"},
		Optional: []string{"limit", "skip", "search"},
		Example: map[string]any{
			"action":                  "resource_set_list_resources",
			"resource_set_identifier": "RSet01",
		},
	},
	"resource_set_list_policies": {
		Required: []string{"resource_set_identifier"},
		Optional: []string{"limit", "skip"},
		Example: map[string]any{
			"action":                  "resource_set_list_policies",
			"resource_set_identifier": "RSet01",
		},
	},
}

func (r *ResourceSets) create(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Pair([]string{"cte", "resource-sets", "create"}, p, "resource_json", "resource-json")
	return r.Run(ctx, p, args)
}

func (r *ResourceSets) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "resource-sets", "list"}, p)
	args = ksctl.Opt(args, p, "resource_set_name", "resource-set-name")
	return r.Run(ctx, p, args)
}

func (r *ResourceSets) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "resource-sets", "get",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
	})
}

func (r *ResourceSets) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "resource-sets", "delete",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
	})
}

func (r *ResourceSets) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "resource-sets", "modify",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
	}
	args = ksctl.Pair(args, p, "resource_json", "resource-json")
	return r.Run(ctx, p, args)
}

func (r *ResourceSets) addResources(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "resource-sets", "add-resources",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
		"--resource-json-file", p.Get("resource_json_file"),
	})
}

func (r *ResourceSets) deleteResource(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "resource-sets", "delete-resource",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
		"--resource-index-list", p.Get("resource_index_list"),
	})
}

func (r *ResourceSets) updateResource(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "resource-sets", "update-resource",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
		"--resource-index", p.Get("resource_index"),
		"--resource-json-file", p.Get("resource_json_file"),
	})
}

func (r *ResourceSets) listResources(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "resource-sets", "list-resources",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
	}
	args = ksctl.Page(args, p)
	args = ksctl.Opt(args, p, "search", "search")
	return r.Run(ctx, p, args)
}

func (r *ResourceSets) listPolicies(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "resource-sets", "list-policies",
		"--resource-set-identifier", p.Get("resource_set_identifier"),
	}
	args = ksctl.Page(args, p)
	return r.Run(ctx, p, args)
}
