package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// UserSets manages CTE user sets and their membership. Set contents are
// expressed as JSON, either inline or from a file.
type UserSets struct {
	registry.Base
}

func NewUserSets(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &UserSets{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_user_sets",
		props(
			"domain", "auth_domain", "limit", "skip", "search",
			"user_set_identifier", "user_set_name",
			"user_json", "user_json_file", "user_index", "user_index_list",
		),
		userSetRequirements,
		map[string]dispatch.HandlerFunc{
			"user_set_create":        r.create,
			"user_set_list":          r.list,
			"user_set_get":           r.get,
			"user_set_delete":        r.delete,
			"user_set_modify":        r.modify,
			"user_set_add_users":     r.addUsers,
			"user_set_delete_user":   r.deleteUser,
			"user_set_update_user":   r.updateUser,
			"user_set_list_users":    r.listUsers,
			"user_set_list_policies": r.listPolicies,
		},
	)
}

var userSetRequirements = map[string]dispatch.Requirement{
	"user_set_create": {
		Either: [][]string{{"user_json", "user_json_file"}},
		Example: map[string]any{
			"action":    "user_set_create",
			"user_json": `{"name": "USet01", "description": "User set for Administrator in thales.com domain", "users": [{"uname": "Administrator", "os_domain": "thales.com"}]}`,
		},
	},
	"user_set_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "user_set_name"},
		Example:  map[string]any{"action": "user_set_list", "limit": 20},
	},
	"user_set_get": {
		Required: []string{"user_set_identifier"},
		Example:  map[string]any{"action": "user_set_get", "user_set_identifier": "USet01"},
	},
	"user_set_delete": {
		Required: []string{"user_set_identifier"},
		Example:  map[string]any{"action": "user_set_delete", "user_set_identifier": "USet01"},
	},
	"user_set_modify": {
		Required: []string{"user_set_identifier"},
		Either:   [][]string{{"user_json", "user_json_file"}},
		Example: map[string]any{
			"action":              "user_set_modify",
			"user_set_identifier": "USet01",
			"user_json":           `{"description": "Updated user set"}`,
		},
	},
	"user_set_add_users": {
		Required: []string{"user_set_identifier", "user_json_file"},
		Example: map[string]any{
			"action":              "user_set_add_users",
			"user_set_identifier": "USet01",
			"user_json_file":      "/tmp/users.json",
		},
	},
	"user_set_delete_user": {
		Required: []string{"user_set_identifier", "user_index_list"},
		Example: map[string]any{
			"action":              "user_set_delete_user",
			"user_set_identifier": "USet01",
			"user_index_list":     "0,1",
		},
	},
	"user_set_update_user": {
		Required: []string{"user_set_identifier", "user_index", "user_json_file"},
		Example: map[string]any{
			"action":              "user_set_update_user",
			"user_set_identifier": "USet01",
			"user_index":          "0",
			"user_json_file":      "/tmp/user.json",
		},
	},
	"user_set_list_users": {
		Required: []string{"user_set_identifier"},
		Optional: []string{"limit", "skip", "search"},
		Example: map[string]any{
			"action":              "user_set_list_users",
			"user_set_identifier": "USet01",
			"search":              "Admin",
		},
	},
	"user_set_list_policies": {
		Required: []string{"user_set_identifier"},
		Optional: []string{"limit", "skip"},
		Example: map[string]any{
			"action":              "user_set_list_policies",
			"user_set_identifier": "USet01",
		},
	},
}

func (r *UserSets) create(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Pair([]string{"cte", "user-sets", "create"}, p, "user_json", "user-json")
	return r.Run(ctx, p, args)
}

func (r *UserSets) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "user-sets", "list"}, p)
	args = ksctl.Opt(args, p, "user_set_name", "user-set-name")
	return r.Run(ctx, p, args)
}

func (r *UserSets) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "user-sets", "get",
		"--user-set-identifier", p.Get("user_set_identifier"),
	})
}

func (r *UserSets) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "user-sets", "delete",
		"--user-set-identifier", p.Get("user_set_identifier"),
	})
}

func (r *UserSets) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "user-sets", "modify",
		"--user-set-identifier", p.Get("user_set_identifier"),
	}
	args = ksctl.Pair(args, p, "user_json", "user-json")
	return r.Run(ctx, p, args)
}

func (r *UserSets) addUsers(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "user-sets", "add-users",
		"--user-set-identifier", p.Get("user_set_identifier"),
		"--user-json-file", p.Get("user_json_file"),
	})
}

func (r *UserSets) deleteUser(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "user-sets", "delete-user",
		"--user-set-identifier", p.Get("user_set_identifier"),
		"--user-index-list", p.Get("user_index_list"),
	})
}

func (r *UserSets) updateUser(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "user-sets", "update-user",
		"--user-set-identifier", p.Get("user_set_identifier"),
		"--user-index", p.Get("user_index"),
		"--user-json-file", p.Get("user_json_file"),
	})
}

func (r *UserSets) listUsers(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "user-sets", "list-users",
		"--user-set-identifier", p.Get("user_set_identifier"),
	}
	args = ksctl.Page(args, p)
	args = ksctl.Opt(args, p, "search", "search")
	return r.Run(ctx, p, args)
}

func (r *UserSets) listPolicies(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "user-sets", "list-policies",
		"--user-set-identifier", p.Get("user_set_identifier"),
	}
	args = ksctl.Page(args, p)
	return r.Run(ctx, p, args)
}
