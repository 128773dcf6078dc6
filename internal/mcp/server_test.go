package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
)

// stubInvoker records argv vectors and returns a canned result instead of
// spawning ksctl.
type stubInvoker struct {
	mu     sync.Mutex
	calls  [][]string
	result *ksctl.Result
}

func (s *stubInvoker) Execute(ctx context.Context, args []string, domain, authDomain string) *ksctl.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]string(nil), args...))
	if s.result != nil {
		return s.result
	}
	return &ksctl.Result{Success: true, Data: map[string]any{"status": "ok"}}
}

func (s *stubInvoker) setResult(r *ksctl.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

func (s *stubInvoker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// ---------------------------------------------------------------------------
// Access policy
// ---------------------------------------------------------------------------

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.AccessMode != "full" {
		t.Errorf("AccessMode = %q, want %q", p.AccessMode, "full")
	}
	if !p.AllowServiceOps {
		t.Error("AllowServiceOps should be true by default")
	}
	if !p.RedactOutput {
		t.Error("RedactOutput should be true by default")
	}
	if !p.CanWrite() {
		t.Error("full mode should allow writes")
	}
	if !p.CanManageServices() {
		t.Error("full mode with AllowServiceOps should allow service management")
	}
}

func TestPolicyCanExecute(t *testing.T) {
	tests := []struct {
		name      string
		policy    AccessPolicy
		tool      string
		operation string
		expected  bool
	}{
		{
			name:      "full mode allows writes",
			policy:    AccessPolicy{AccessMode: "full", AllowServiceOps: true},
			tool:      "cte_management",
			operation: "policy_create",
			expected:  true,
		},
		{
			name:      "read-only blocks writes",
			policy:    AccessPolicy{AccessMode: "read-only"},
			tool:      "cte_management",
			operation: "policy_create",
			expected:  false,
		},
		{
			name:      "read-only allows list",
			policy:    AccessPolicy{AccessMode: "read-only"},
			tool:      "cte_management",
			operation: "policy_list",
			expected:  true,
		},
		{
			name:      "read-only allows get",
			policy:    AccessPolicy{AccessMode: "read-only"},
			tool:      "cluster_management",
			operation: "nodes_get",
			expected:  true,
		},
		{
			name:      "read-only allows cluster info",
			policy:    AccessPolicy{AccessMode: "read-only"},
			tool:      "cluster_management",
			operation: "info",
			expected:  true,
		},
		{
			name:      "read-write allows writes",
			policy:    AccessPolicy{AccessMode: "read-write"},
			tool:      "scheduler_management",
			operation: "configs_create",
			expected:  true,
		},
		{
			name:      "read-write blocks service restart",
			policy:    AccessPolicy{AccessMode: "read-write", AllowServiceOps: true},
			tool:      "service_management",
			operation: "restart",
			expected:  false,
		},
		{
			name:      "full without service ops blocks reset",
			policy:    AccessPolicy{AccessMode: "full", AllowServiceOps: false},
			tool:      "service_management",
			operation: "reset",
			expected:  false,
		},
		{
			name:      "service status is always a read",
			policy:    AccessPolicy{AccessMode: "read-only", AllowServiceOps: false},
			tool:      "service_management",
			operation: "status",
			expected:  true,
		},
		{
			name:      "deny pattern",
			policy:    AccessPolicy{AccessMode: "full", OperationsAllow: []string{"*"}, OperationsDeny: []string{"*_delete"}},
			tool:      "cte_management",
			operation: "client_delete",
			expected:  false,
		},
		{
			name:      "deny takes precedence over allow",
			policy:    AccessPolicy{AccessMode: "full", OperationsAllow: []string{"policy_*"}, OperationsDeny: []string{"policy_*"}},
			tool:      "cte_management",
			operation: "policy_list",
			expected:  false,
		},
		{
			name:      "not in allow list",
			policy:    AccessPolicy{AccessMode: "full", OperationsAllow: []string{"policy_*"}},
			tool:      "cte_management",
			operation: "client_list",
			expected:  false,
		},
		{
			name:      "glob match in allow list",
			policy:    AccessPolicy{AccessMode: "full", OperationsAllow: []string{"policy_*"}},
			tool:      "cte_management",
			operation: "policy_add_security_rule",
			expected:  true,
		},
		{
			name:      "empty allow list allows all",
			policy:    AccessPolicy{AccessMode: "full", AllowServiceOps: true},
			tool:      "scheduler_management",
			operation: "jobs_delete",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.CanExecute(tt.tool, tt.operation)
			if got != tt.expected {
				t.Errorf("CanExecute(%q, %q) = %v, want %v", tt.tool, tt.operation, got, tt.expected)
			}
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `access_mode: read-only
operations_deny:
  - reset
allow_service_ops: false
redact_output: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if p == nil {
		t.Fatal("expected a policy")
	}
	if p.AccessMode != "read-only" {
		t.Errorf("AccessMode = %q, want %q", p.AccessMode, "read-only")
	}
	if len(p.OperationsDeny) != 1 || p.OperationsDeny[0] != "reset" {
		t.Errorf("OperationsDeny = %v, want [reset]", p.OperationsDeny)
	}
	if p.AllowServiceOps {
		t.Error("AllowServiceOps should be false")
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	p, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil policy for a missing file, got %+v", p)
	}
}

// ---------------------------------------------------------------------------
// Redaction
// ---------------------------------------------------------------------------

func TestRedactSecrets(t *testing.T) {
	secrets := []string{"SecretPass123!", "sk-abc123xyz"}
	output := "login with SecretPass123! using key sk-abc123xyz"

	result := redactSecrets(output, secrets)

	expected := "login with [REDACTED] using key [REDACTED]"
	if result != expected {
		t.Errorf("got %q, want %q", result, expected)
	}
}

func TestRedactSecrets_ShortValues(t *testing.T) {
	secrets := []string{"ab", "abc", "abcd"}
	output := "values: ab abc abcd"

	result := redactSecrets(output, secrets)

	// "ab" (2 chars) and "abc" (3 chars) should NOT be redacted
	// "abcd" (4 chars) should be redacted
	expected := "values: ab abc [REDACTED]"
	if result != expected {
		t.Errorf("got %q, want %q", result, expected)
	}
}

// ---------------------------------------------------------------------------
// Server integration over the in-memory transport
// ---------------------------------------------------------------------------

func connect(t *testing.T, srv *CipherTrustMCPServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	t1, t2 := sdkmcp.NewInMemoryTransports()
	if _, err := srv.server.Connect(ctx, t1, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func resultText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("expected content")
	}
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want *TextContent", res.Content[0])
	}
	return tc.Text
}

func TestMCPServerIntegration(t *testing.T) {
	inv := &stubInvoker{}
	srv, err := NewCipherTrustMCPServer(inv, nil, nil, "SecretPass123!")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx := context.Background()
	cs := connect(t, srv)

	t.Run("list_tools", func(t *testing.T) {
		toolNames := make(map[string]bool)
		for tool, err := range cs.Tools(ctx, nil) {
			if err != nil {
				t.Fatalf("list tools: %v", err)
			}
			toolNames[tool.Name] = true
		}
		for _, name := range []string{
			"cte_management",
			"cluster_management",
			"scheduler_management",
			"service_management",
			"describe_operations",
		} {
			if !toolNames[name] {
				t.Errorf("missing tool: %s", name)
			}
		}
		if len(toolNames) != 5 {
			t.Errorf("expected 5 tools, got %d", len(toolNames))
		}
	})

	t.Run("successful_operation", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cte_management",
			Arguments: map[string]any{"action": "policy_list"},
		})
		if err != nil {
			t.Fatalf("call cte_management: %v", err)
		}
		if res.IsError {
			t.Fatalf("tool returned error: %s", resultText(t, res))
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out["status"] != "ok" {
			t.Errorf("status = %v, want ok", out["status"])
		}
		if inv.callCount() == 0 {
			t.Error("expected the invoker to be called")
		}
	})

	t.Run("missing_parameters", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cte_management",
			Arguments: map[string]any{"action": "policy_get"},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected an error result")
		}
		var out struct {
			Error    string         `json:"error"`
			Required []string       `json:"required"`
			Example  map[string]any `json:"example"`
		}
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out.Error != "Missing required parameters for action 'policy_get'" {
			t.Errorf("error = %q", out.Error)
		}
		if len(out.Required) != 1 || out.Required[0] != "cte_policy_identifier" {
			t.Errorf("required = %v, want [cte_policy_identifier]", out.Required)
		}
		if out.Example["cte_policy_identifier"] != "MyDataPolicy" {
			t.Errorf("example = %v", out.Example)
		}
	})

	t.Run("unknown_action", func(t *testing.T) {
		before := inv.callCount()
		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cte_management",
			Arguments: map[string]any{"action": "policy_teleport"},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected an error result")
		}
		if inv.callCount() != before {
			t.Error("unknown action should not reach the invoker")
		}
	})

	t.Run("invocation_failure", func(t *testing.T) {
		inv.setResult(&ksctl.Result{
			Success:  false,
			Error:    "exit status 1",
			Stderr:   "Error: policy not found",
			ExitCode: 1,
		})
		defer inv.setResult(nil)

		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cte_management",
			Arguments: map[string]any{"action": "policy_get", "cte_policy_identifier": "Ghost"},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected an error result")
		}
		var out struct {
			Error    string `json:"error"`
			Stderr   string `json:"stderr"`
			ExitCode int    `json:"exit_code"`
		}
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out.Stderr != "Error: policy not found" {
			t.Errorf("stderr = %q", out.Stderr)
		}
		if out.ExitCode != 1 {
			t.Errorf("exit_code = %d, want 1", out.ExitCode)
		}
	})

	t.Run("output_redaction", func(t *testing.T) {
		inv.setResult(&ksctl.Result{Success: true, Stdout: "bound with password SecretPass123!\n"})
		defer inv.setResult(nil)

		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cluster_management",
			Arguments: map[string]any{"action": "info"},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		text := resultText(t, res)
		if strings.Contains(text, "SecretPass123!") {
			t.Errorf("secret leaked into output: %q", text)
		}
		if !strings.Contains(text, "[REDACTED]") {
			t.Errorf("expected redaction marker, got %q", text)
		}
	})

	t.Run("describe_single_tool", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "describe_operations",
			Arguments: map[string]any{"tool": "cluster_management"},
		})
		if err != nil {
			t.Fatalf("call describe_operations: %v", err)
		}
		if res.IsError {
			t.Fatalf("tool returned error: %s", resultText(t, res))
		}
		var doc dispatch.Document
		if err := json.Unmarshal([]byte(resultText(t, res)), &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if doc.Tool != "cluster_management" {
			t.Errorf("tool = %q", doc.Tool)
		}
		if len(doc.Operations) != 8 {
			t.Errorf("operations = %d, want 8", len(doc.Operations))
		}
		if _, ok := doc.Requirements["join"]; !ok {
			t.Error("expected requirements for join")
		}
	})

	t.Run("describe_all_tools", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name: "describe_operations",
		})
		if err != nil {
			t.Fatalf("call describe_operations: %v", err)
		}
		var docs []dispatch.Document
		if err := json.Unmarshal([]byte(resultText(t, res)), &docs); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(docs) != 4 {
			t.Fatalf("expected 4 documents, got %d", len(docs))
		}
		if docs[0].Tool != "cte_management" {
			t.Errorf("first tool = %q, want cte_management", docs[0].Tool)
		}
	})

	t.Run("policy_read_only_blocks_writes", func(t *testing.T) {
		roPolicy := &AccessPolicy{
			AccessMode:      "read-only",
			OperationsAllow: []string{"*"},
		}
		roSrv, err := NewCipherTrustMCPServer(inv, roPolicy, nil)
		if err != nil {
			t.Fatalf("new server: %v", err)
		}
		roCs := connect(t, roSrv)

		before := inv.callCount()
		res, err := roCs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name: "cte_management",
			Arguments: map[string]any{
				"action":          "policy_create",
				"cte_policy_name": "Blocked",
				"policy_type":     "Standard",
			},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if !res.IsError {
			t.Error("expected error for write in read-only mode")
		}
		if !strings.Contains(resultText(t, res), "not permitted by the access policy") {
			t.Errorf("unexpected error text: %q", resultText(t, res))
		}
		if inv.callCount() != before {
			t.Error("denied operation should not reach the invoker")
		}

		roRes, err := roCs.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "cte_management",
			Arguments: map[string]any{"action": "policy_list"},
		})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if roRes.IsError {
			t.Errorf("read operation should pass in read-only mode: %s", resultText(t, roRes))
		}
	})
}
