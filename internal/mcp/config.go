package mcp

import (
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// AccessPolicy controls which operations the MCP server will pass on to
// ksctl. Operation patterns are matched against the action names exposed
// by the tools, so "policy_*" covers every CTE policy operation.
type AccessPolicy struct {
	AccessMode      string   `yaml:"access_mode"`
	OperationsAllow []string `yaml:"operations_allow"`
	OperationsDeny  []string `yaml:"operations_deny"`
	AllowServiceOps bool     `yaml:"allow_service_ops"`
	RedactOutput    bool     `yaml:"redact_output"`
}

// DefaultPolicy returns a permissive default policy.
func DefaultPolicy() *AccessPolicy {
	return &AccessPolicy{
		AccessMode:      "full",
		OperationsAllow: []string{"*"},
		OperationsDeny:  nil,
		AllowServiceOps: true,
		RedactOutput:    true,
	}
}

// LoadPolicy reads an access policy from a YAML file.
// Returns nil, nil if the file does not exist.
func LoadPolicy(path string) (*AccessPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var policy AccessPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// CanExecute reports whether the policy allows the named operation on the
// named tool. Deny patterns take precedence over allow patterns, and an
// empty allow list allows everything.
func (p *AccessPolicy) CanExecute(tool, operation string) bool {
	if matchesAny(operation, p.OperationsDeny) {
		return false
	}
	if len(p.OperationsAllow) > 0 && !matchesAny(operation, p.OperationsAllow) {
		return false
	}
	if tool == "service_management" && operation != "status" {
		return p.CanManageServices()
	}
	if mutates(operation) {
		return p.CanWrite()
	}
	return true
}

// CanWrite reports whether the policy allows operations that change state
// on the appliance.
func (p *AccessPolicy) CanWrite() bool {
	return p.AccessMode == "read-write" || p.AccessMode == "full"
}

// CanManageServices reports whether service restarts and resets are allowed.
func (p *AccessPolicy) CanManageServices() bool {
	return p.AllowServiceOps && p.AccessMode == "full"
}

// mutates reports whether an operation changes state on the appliance.
// Read operations follow the same naming convention across all tools.
func mutates(operation string) bool {
	switch operation {
	case "info", "summary", "status":
		return false
	}
	return !strings.Contains(operation, "_list") && !strings.Contains(operation, "_get")
}

// matchesAny returns true if name matches any of the glob patterns.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
