package cte

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Policies covers the CTE policy lifecycle plus the security, key, and
// LDT rules attached to a policy.
type Policies struct {
	registry.Base
}

func NewPolicies(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Policies{registry.Base{Invoker: inv}}
	return dispatch.NewTable("cte_policies",
		props(
			"domain", "auth_domain", "limit", "skip", "description",
			"cte_policy_name", "cte_policy_identifier", "policy_type", "never_deny",
			"security_rules_json", "security_rules_json_file",
			"key_rules_json", "key_rules_json_file",
			"data_tx_rules_json", "data_tx_rules_json_file",
			"ldt_rules_json", "ldt_rules_json_file",
			"idt_rules_json", "idt_rules_json_file",
			"signature_rules_json", "signature_rules_json_file",
			"restrict_update_json", "restrict_update_json_file",
			"effect", "action_type", "security_rule_identifier",
			"user_set_identifier", "process_set_identifier", "resource_set_identifier",
			"exclude_user_set", "exclude_process_set", "exclude_resource_set",
			"order_number", "key_identifier", "key_type", "key_rule_identifier",
			"current_key_json_file", "transform_key_json_file",
			"ldt_rule_identifier", "is_exclusion_rule",
		),
		policyRequirements,
		map[string]dispatch.HandlerFunc{
			"policy_create": r.create,
			"policy_list":   r.list,
			"policy_get":    r.get,
			"policy_delete": r.delete,
			"policy_modify": r.modify,

			"policy_add_security_rule":    r.addSecurityRule,
			"policy_delete_security_rule": r.deleteSecurityRule,
			"policy_get_security_rule":    r.getSecurityRule,
			"policy_list_security_rules":  r.listSecurityRules,
			"policy_modify_security_rule": r.modifySecurityRule,

			"policy_add_key_rule":    r.addKeyRule,
			"policy_delete_key_rule": r.deleteKeyRule,
			"policy_get_key_rule":    r.getKeyRule,
			"policy_list_key_rules":  r.listKeyRules,
			"policy_modify_key_rule": r.modifyKeyRule,

			"policy_add_ldt_rule":    r.addLDTRule,
			"policy_delete_ldt_rule": r.deleteLDTRule,
			"policy_get_ldt_rule":    r.getLDTRule,
			"policy_list_ldt_rules":  r.listLDTRules,
			"policy_modify_ldt_rule": r.modifyLDTRule,
		},
	)
}

var policyRequirements = map[string]dispatch.Requirement{
	"policy_create": {
		Required: []string{"cte_policy_name", "policy_type"},
		Optional: []string{
			"description", "never_deny",
			"security_rules_json", "security_rules_json_file",
			"key_rules_json", "key_rules_json_file",
			"data_tx_rules_json", "data_tx_rules_json_file",
			"ldt_rules_json", "ldt_rules_json_file",
			"idt_rules_json", "idt_rules_json_file",
			"signature_rules_json", "signature_rules_json_file",
			"restrict_update_json", "restrict_update_json_file",
		},
		Example: map[string]any{
			"action":          "policy_create",
			"cte_policy_name": "MyDataPolicy",
			"policy_type":     "Standard",
			"description":     "Policy for sensitive data protection",
		},
	},
	"policy_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "cte_policy_name", "policy_type"},
		Example:  map[string]any{"action": "policy_list", "limit": 20},
	},
	"policy_get": {
		Required: []string{"cte_policy_identifier"},
		Example:  map[string]any{"action": "policy_get", "cte_policy_identifier": "MyDataPolicy"},
	},
	"policy_delete": {
		Required: []string{"cte_policy_identifier"},
		Example:  map[string]any{"action": "policy_delete", "cte_policy_identifier": "MyDataPolicy"},
	},
	"policy_modify": {
		Required: []string{"cte_policy_identifier"},
		Optional: []string{"description", "never_deny", "restrict_update_json", "restrict_update_json_file"},
		Example: map[string]any{
			"action":                "policy_modify",
			"cte_policy_identifier": "MyDataPolicy",
			"description":           "Updated policy description",
		},
	},

	"policy_add_security_rule": {
		Required: []string{"cte_policy_identifier", "effect"},
		Optional: []string{
			"action_type", "user_set_identifier", "process_set_identifier", "resource_set_identifier",
			"exclude_user_set", "exclude_process_set", "exclude_resource_set",
		},
		Example: map[string]any{
			"action":                "policy_add_security_rule",
			"cte_policy_identifier": "MyDataPolicy",
			"effect":                "permit",
			"action_type":           "read",
			"user_set_identifier":   "AdminUsers",
		},
	},
	"policy_delete_security_rule": {
		Required: []string{"cte_policy_identifier", "security_rule_identifier"},
		Example: map[string]any{
			"action":                   "policy_delete_security_rule",
			"cte_policy_identifier":    "MyDataPolicy",
			"security_rule_identifier": "rule-id-1",
		},
	},
	"policy_get_security_rule": {
		Required: []string{"cte_policy_identifier", "security_rule_identifier"},
		Example: map[string]any{
			"action":                   "policy_get_security_rule",
			"cte_policy_identifier":    "MyDataPolicy",
			"security_rule_identifier": "rule-id-1",
		},
	},
	"policy_list_security_rules": {
		Required: []string{"cte_policy_identifier"},
		Optional: []string{"limit", "skip", "action_type"},
		Example: map[string]any{
			"action":                "policy_list_security_rules",
			"cte_policy_identifier": "MyDataPolicy",
			"limit":                 20,
		},
	},
	"policy_modify_security_rule": {
		Required: []string{"cte_policy_identifier", "security_rule_identifier"},
		Optional: []string{
			"effect", "action_type", "order_number",
			"user_set_identifier", "process_set_identifier", "resource_set_identifier",
			"exclude_user_set", "exclude_process_set", "exclude_resource_set",
		},
		Example: map[string]any{
			"action":                   "policy_modify_security_rule",
			"cte_policy_identifier":    "MyDataPolicy",
			"security_rule_identifier": "rule-id-1",
			"order_number":             1,
		},
	},

	"policy_add_key_rule": {
		Required: []string{"cte_policy_identifier", "key_identifier"},
		Optional: []string{"key_type", "resource_set_identifier"},
		Example: map[string]any{
			"action":                "policy_add_key_rule",
			"cte_policy_identifier": "MyDataPolicy",
			"key_identifier":        "DataEncryptionKey",
			"key_type":              "name",
		},
	},
	"policy_delete_key_rule": {
		Required: []string{"cte_policy_identifier", "key_rule_identifier"},
		Example: map[string]any{
			"action":                "policy_delete_key_rule",
			"cte_policy_identifier": "MyDataPolicy",
			"key_rule_identifier":   "keyrule-id-1",
		},
	},
	"policy_get_key_rule": {
		Required: []string{"cte_policy_identifier", "key_rule_identifier"},
		Example: map[string]any{
			"action":                "policy_get_key_rule",
			"cte_policy_identifier": "MyDataPolicy",
			"key_rule_identifier":   "keyrule-id-1",
		},
	},
	"policy_list_key_rules": {
		Required: []string{"cte_policy_identifier"},
		Optional: []string{"limit", "skip"},
		Example: map[string]any{
			"action":                "policy_list_key_rules",
			"cte_policy_identifier": "MyDataPolicy",
		},
	},
	"policy_modify_key_rule": {
		Required: []string{"cte_policy_identifier", "key_rule_identifier"},
		Optional: []string{"key_identifier", "key_type", "order_number", "resource_set_identifier"},
		Example: map[string]any{
			"action":                "policy_modify_key_rule",
			"cte_policy_identifier": "MyDataPolicy",
			"key_rule_identifier":   "keyrule-id-1",
			"key_identifier":        "RotatedKey",
		},
	},

	"policy_add_ldt_rule": {
		Required: []string{"cte_policy_identifier", "current_key_json_file", "transform_key_json_file"},
		Optional: []string{"resource_set_identifier", "is_exclusion_rule"},
		Example: map[string]any{
			"action":                  "policy_add_ldt_rule",
			"cte_policy_identifier":   "MyLDTPolicy",
			"current_key_json_file":   "/tmp/current_key.json",
			"transform_key_json_file": "/tmp/transform_key.json",
		},
	},
	"policy_delete_ldt_rule": {
		Required: []string{"cte_policy_identifier", "ldt_rule_identifier"},
		Example: map[string]any{
			"action":                "policy_delete_ldt_rule",
			"cte_policy_identifier": "MyLDTPolicy",
			"ldt_rule_identifier":   "ldtrule-id-1",
		},
	},
	"policy_get_ldt_rule": {
		Required: []string{"cte_policy_identifier", "ldt_rule_identifier"},
		Example: map[string]any{
			"action":                "policy_get_ldt_rule",
			"cte_policy_identifier": "MyLDTPolicy",
			"ldt_rule_identifier":   "ldtrule-id-1",
		},
	},
	"policy_list_ldt_rules": {
		Required: []string{"cte_policy_identifier"},
		Example: map[string]any{
			"action":                "policy_list_ldt_rules",
			"cte_policy_identifier": "MyLDTPolicy",
		},
	},
	"policy_modify_ldt_rule": {
		Required: []string{"cte_policy_identifier", "ldt_rule_identifier"},
		Optional: []string{
			"current_key_json_file", "transform_key_json_file",
			"order_number", "resource_set_identifier", "is_exclusion_rule",
		},
		Example: map[string]any{
			"action":                "policy_modify_ldt_rule",
			"cte_policy_identifier": "MyLDTPolicy",
			"ldt_rule_identifier":   "ldtrule-id-1",
			"order_number":          2,
		},
	},
}

// ---------------------------------------------------------------------------
// Policy lifecycle
// ---------------------------------------------------------------------------

func (r *Policies) create(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "create",
		"--cte-policy-name", p.Get("cte_policy_name"),
		"--policy-type", p.Get("policy_type"),
	}
	args = ksctl.Opt(args, p, "description", "description")
	args = ksctl.Switch(args, p, "never_deny", "never-deny")
	args = ksctl.Pair(args, p, "security_rules_json", "security-rules-json")
	args = ksctl.Pair(args, p, "key_rules_json", "key-rules-json")
	args = ksctl.Pair(args, p, "data_tx_rules_json", "data-tx-rules-json")
	args = ksctl.Pair(args, p, "ldt_rules_json", "ldt-rules-json")
	args = ksctl.Pair(args, p, "idt_rules_json", "idt-rules-json")
	args = ksctl.Pair(args, p, "signature_rules_json", "signature-rules-json")
	args = ksctl.Pair(args, p, "restrict_update_json", "restrict-update-json")
	return r.Run(ctx, p, args)
}

func (r *Policies) list(ctx context.Context, p params.Bag) (any, error) {
	args := ksctl.Page([]string{"cte", "policies", "list"}, p)
	args = ksctl.Opt(args, p, "cte_policy_name", "cte-policy-name")
	args = ksctl.Opt(args, p, "policy_type", "policy-type")
	return r.Run(ctx, p, args)
}

func (r *Policies) get(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "get",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	})
}

func (r *Policies) delete(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "delete",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	})
}

func (r *Policies) modify(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "modify",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	}
	args = ksctl.Set(args, p, "description", "description")
	args = ksctl.Tri(args, p, "never_deny", "never-deny")
	args = ksctl.Pair(args, p, "restrict_update_json", "restrict-update-json")
	return r.Run(ctx, p, args)
}

// ---------------------------------------------------------------------------
// Security rules
// ---------------------------------------------------------------------------

func (r *Policies) addSecurityRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "add-security-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--effect", p.Get("effect"),
	}
	args = ksctl.Opt(args, p, "action_type", "action")
	args = ksctl.Opt(args, p, "user_set_identifier", "user-set-identifier")
	args = ksctl.Opt(args, p, "process_set_identifier", "process-set-identifier")
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	args = ksctl.Switch(args, p, "exclude_user_set", "exclude-user-set")
	args = ksctl.Switch(args, p, "exclude_process_set", "exclude-process-set")
	args = ksctl.Switch(args, p, "exclude_resource_set", "exclude-resource-set")
	return r.Run(ctx, p, args)
}

func (r *Policies) deleteSecurityRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "delete-security-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--security-rule-identifier", p.Get("security_rule_identifier"),
	})
}

func (r *Policies) getSecurityRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "get-security-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--security-rule-identifier", p.Get("security_rule_identifier"),
	})
}

func (r *Policies) listSecurityRules(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "list-security-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	}
	args = ksctl.Page(args, p)
	args = ksctl.Opt(args, p, "action_type", "action")
	return r.Run(ctx, p, args)
}

func (r *Policies) modifySecurityRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "modify-security-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--security-rule-identifier", p.Get("security_rule_identifier"),
	}
	args = ksctl.Opt(args, p, "effect", "effect")
	args = ksctl.Opt(args, p, "action_type", "action")
	args = ksctl.Set(args, p, "order_number", "order-number")
	args = ksctl.Opt(args, p, "user_set_identifier", "user-set-identifier")
	args = ksctl.Opt(args, p, "process_set_identifier", "process-set-identifier")
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	args = ksctl.Tri(args, p, "exclude_user_set", "exclude-user-set")
	args = ksctl.Tri(args, p, "exclude_process_set", "exclude-process-set")
	args = ksctl.Tri(args, p, "exclude_resource_set", "exclude-resource-set")
	return r.Run(ctx, p, args)
}

// ---------------------------------------------------------------------------
// Key rules
// ---------------------------------------------------------------------------

func (r *Policies) addKeyRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "add-key-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--key-identifier", p.Get("key_identifier"),
	}
	args = ksctl.Opt(args, p, "key_type", "key-type")
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	return r.Run(ctx, p, args)
}

func (r *Policies) deleteKeyRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "delete-key-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--key-rule-identifier", p.Get("key_rule_identifier"),
	})
}

func (r *Policies) getKeyRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "get-key-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--key-rule-identifier", p.Get("key_rule_identifier"),
	})
}

func (r *Policies) listKeyRules(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "list-key-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	}
	args = ksctl.Page(args, p)
	return r.Run(ctx, p, args)
}

func (r *Policies) modifyKeyRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "modify-key-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--key-rule-identifier", p.Get("key_rule_identifier"),
	}
	args = ksctl.Opt(args, p, "key_identifier", "key-identifier")
	args = ksctl.Opt(args, p, "key_type", "key-type")
	args = ksctl.Set(args, p, "order_number", "order-number")
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	return r.Run(ctx, p, args)
}

// ---------------------------------------------------------------------------
// LDT rules
// ---------------------------------------------------------------------------

func (r *Policies) addLDTRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "add-ldt-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--current-key-json-file", p.Get("current_key_json_file"),
		"--transform-key-json-file", p.Get("transform_key_json_file"),
	}
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	args = ksctl.Switch(args, p, "is_exclusion_rule", "is-exclusion-rule")
	return r.Run(ctx, p, args)
}

func (r *Policies) deleteLDTRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "delete-ldt-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--ldt-rule-identifier", p.Get("ldt_rule_identifier"),
	})
}

func (r *Policies) getLDTRule(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "get-ldt-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--ldt-rule-identifier", p.Get("ldt_rule_identifier"),
	})
}

func (r *Policies) listLDTRules(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"cte", "policies", "list-ldt-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
	})
}

func (r *Policies) modifyLDTRule(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"cte", "policies", "modify-ldt-rules",
		"--cte-policy-identifier", p.Get("cte_policy_identifier"),
		"--ldt-rule-identifier", p.Get("ldt_rule_identifier"),
	}
	args = ksctl.Opt(args, p, "current_key_json_file", "current-key-json-file")
	args = ksctl.Opt(args, p, "transform_key_json_file", "transform-key-json-file")
	args = ksctl.Set(args, p, "order_number", "order-number")
	args = ksctl.Opt(args, p, "resource_set_identifier", "resource-set-identifier")
	args = ksctl.Tri(args, p, "is_exclusion_rule", "is-exclusion-rule")
	return r.Run(ctx, p, args)
}
