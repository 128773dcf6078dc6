package cmd

import (
	"strings"
	"testing"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
)

func TestConfigDir(t *testing.T) {
	dir := configDir()
	if dir == "" {
		t.Fatal("configDir() returned empty string")
	}
	if !strings.HasSuffix(dir, ".ctmcp") {
		t.Errorf("configDir() = %s, want a .ctmcp suffix", dir)
	}
}

func TestRequirementSummary(t *testing.T) {
	tests := []struct {
		name string
		req  dispatch.Requirement
		want string
	}{
		{
			name: "no requirements",
			req:  dispatch.Requirement{},
			want: "",
		},
		{
			name: "required only",
			req:  dispatch.Requirement{Required: []string{"cte_policy_name", "policy_type"}},
			want: "requires cte_policy_name, policy_type",
		},
		{
			name: "either group only",
			req:  dispatch.Requirement{Either: [][]string{{"user_json", "user_json_file"}}},
			want: "one of user_json | user_json_file",
		},
		{
			name: "required and either",
			req: dispatch.Requirement{
				Required: []string{"user_set_identifier"},
				Either:   [][]string{{"user_json", "user_json_file"}},
			},
			want: "requires user_set_identifier; one of user_json | user_json_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := requirementSummary(tt.req)
			if got != tt.want {
				t.Errorf("requirementSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindFacade(t *testing.T) {
	f := dispatch.Must("demo_tool", "demo")

	if got := findFacade([]*dispatch.Facade{f}, "demo_tool"); got != f {
		t.Error("findFacade() should return the matching facade")
	}
	if got := findFacade([]*dispatch.Facade{f}, "missing"); got != nil {
		t.Error("findFacade() should return nil for an unknown name")
	}
}
