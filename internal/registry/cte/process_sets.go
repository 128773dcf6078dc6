package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// ProcessSets manages CTE process sets and their membership.
type ProcessSets struct {
	registry.Base
}

func NewProcessSets(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &ProcessSets{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_process_sets",
		props(
			"domain", "auth_domain", "limit", "skip", "search",
			"process_set_identifier", "process_set_name",
			"process_json", "process_json_file", "process_index", "process_index_list",
		),
		processSetRequirements,
		map[string]dispatch.HandlerFunc{
			"process_set_create":         r.create,
			"process_set_list":           r.list,
			"process_set_get":            r.get,
			"process_set_delete":         r.delete,
			"process_set_modify":         r.modify,
			"process_set_add_processes":  r.addProcesses,
			"process_set_delete_process": r.deleteProcess,
			"process_set_update_process": r.updateProcess,
			"process_set_list_processes": r.listProcesses,
			"process_set_list_policies":  r.listPolicies,
		},
	)
}

var processSetRequirements = map[string]dispatch.Requirement{
	"process_set_create": {
		Either: [][]string{{"process_json", "process_json_file"}},
		Example: map[string]any{
			"action":       "process_set_create",
			"process_json": `{"name": "PSet01", "description": "Trusted backup processes", "processes": [{"directory": "/usr/sbin", "file": "backupd"}]}`,
		},
	},
	"process_set_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "process_set_name"},
		Example:  map[string]any{"action": "process_set_list", "limit": 20},
	},
	"process_set_get": {
		Required: []string{"process_set_identifier"},
		Example:  map[string]any{"action": "process_set_get", "process_set_identifier": "PSet01"},
	},
	"process_set_delete": {
		Required: []string{"process_set_identifier"},
		Example:  map[string]any{"action": "process_set_delete", "process_set_identifier": "PSet01"},
	},
	"process_set_modify": {
		Required: []string{"process_set_identifier"},
		Either:   [][]string{{"process_json", "process_json_file"}},
		Example: map[string]any{
			"action":                 "process_set_modify",
			"process_set_identifier": "PSet01",
			"process_json":           `{"description": "Updated process set"}`,
		},
	},
	"process_set_add_processes": {
		Required: []string{"process_set_identifier", "process_json_file"},
		Example: map[string]any{
			"action":                 "process_set_add_processes",
			"process_set_identifier": "PSet01",
			"process_json_file":      "/tmp/processes.json",
		},
	},
	"process_set_delete_process": {
		Required: []string{"process_set_identifier", "process_index_list"},
		Example: map[string]any{
			"action":                 "process_set_delete_process",
			"process_set_identifier": "PSet01",
			"process_index_list":     "0,1",
		},
	},
	"process_set_update_process": {
		Required: []string{"process_set_identifier", "process_index", "process_json_file"},
		Example: map[string]any{
			"action":                 "process_set_update_process",
			"process_set_identifier": "PSet01",
			"process_index":          "0",
			"process_json_file":      "/tmp/process.json",
		},
	},
	"process_set_list_processes": {
		Required: []string{"process_set_identifier"},
		Optional: []string{"limit", "skip", "search"},
		Example: map[string]any{
			"action":                 "process_set_list_processes",
			"process_set_identifier": "PSet01",
		},
	},
	"process_set_list_policies": {
		Required: []string{"process_set_identifier"},
		Optional: []string{"limit", "skip"},
		Example: map[string]any{
			"action":                 "process_set_list_policies",
			"process_set_identifier": "PSet01",
		},
	},
}

func (r *ProcessSets) create(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Pair([]string{"cte", "process-sets", "create"}, p, "process_json", "process-json")
	return r.Run(ctx, p, args)
}

func (r *ProcessSets) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "process-sets", "list"}, p)
	args = ksctl.Opt(args, p, "process_set_name", "process-set-name")
	return r.Run(ctx, p, args)
}

func (r *ProcessSets) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "process-sets", "get",
		"--process-set-identifier", p.Get("process_set_identifier"),
	})
}

func (r *ProcessSets) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "process-sets", "delete",
		"--process-set-identifier", p.Get("process_set_identifier"),
	})
}

func (r *ProcessSets) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "process-sets", "modify",
		"--process-set-identifier", p.Get("process_set_identifier"),
	}
	args = ksctl.Pair(args, p, "process_json", "process-json")
	return r.Run(ctx, p, args)
}

func (r *ProcessSets) addProcesses(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "process-sets", "add-processes",
		"--process-set-identifier", p.Get("process_set_identifier"),
		"--process-json-file", p.Get("process_json_file"),
	})
}

func (r *ProcessSets) deleteProcess(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "process-sets", "delete-process",
		"--process-set-identifier", p.Get("process_set_identifier"),
		"--process-index-list", p.Get("process_index_list"),
	})
}

func (r *ProcessSets) updateProcess(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "process-sets", "update-process",
		"--process-set-identifier", p.Get("process_set_identifier"),
		"--process-index", p.Get("process_index"),
		"--process-json-file", p.Get("process_json_file"),
	})
}

func (r *ProcessSets) listProcesses(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "process-sets", "list-processes",
		"--process-set-identifier", p.Get("process_set_identifier"),
	}
	args = ksctl.Page(args, p)
	args = ksctl.Opt(args, p, "search", "search")
	return r.Run(ctx, p, args)
}

func (r *ProcessSets) listPolicies(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "process-sets", "list-policies",
		"--process-set-identifier", p.Get("process_set_identifier"),
	}
	args = ksctl.Page(args, p)
	return r.Run(ctx, p, args)
}
