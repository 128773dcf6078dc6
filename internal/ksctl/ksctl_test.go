package ksctl

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/config"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

func testCLI(path string, timeout time.Duration) *CLI {
	cfg := &config.Config{}
	cfg.Ksctl.Path = path
	cfg.Ksctl.Timeout = timeout
	return New(cfg, nil)
}

func TestExecute_Success(t *testing.T) {
	cli := testCLI("echo", 10*time.Second)

	res := cli.Execute(context.Background(), []string{"hello", "world"}, "", "")
	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	if got := strings.TrimSpace(res.Stdout); got != "hello world" {
		t.Errorf("Stdout = %q", got)
	}
	if res.Data != nil {
		t.Errorf("Data = %v, want nil for non-JSON output", res.Data)
	}
}

func TestExecute_ParsesJSONOutput(t *testing.T) {
	cli := testCLI("echo", 10*time.Second)

	res := cli.Execute(context.Background(), []string{`{"resources":[],"total":0}`}, "", "")
	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %T, want map", res.Data)
	}
	if data["total"] != float64(0) {
		t.Errorf("Data[total] = %v", data["total"])
	}
}

func TestExecute_Failure(t *testing.T) {
	cli := testCLI("false", 10*time.Second)

	res := cli.Execute(context.Background(), nil, "", "")
	if res.Success {
		t.Fatal("Success = true for failing command")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Error == "" {
		t.Error("Error is empty for failing command")
	}
}

func TestExecute_Timeout(t *testing.T) {
	cli := testCLI("sleep", 100*time.Millisecond)

	res := cli.Execute(context.Background(), []string{"5"}, "", "")
	if res.Success {
		t.Fatal("Success = true for timed out command")
	}
	if !strings.Contains(res.Error, "timed out") {
		t.Errorf("Error = %q, want timeout message", res.Error)
	}
}

func TestExecute_AppendsDomainScope(t *testing.T) {
	cli := testCLI("echo", 10*time.Second)

	res := cli.Execute(context.Background(), []string{"cte", "policies", "list"}, "finance", "root")
	if !res.Success {
		t.Fatalf("Success = false, error = %q", res.Error)
	}
	want := "cte policies list --domain finance --auth-domain root"
	if got := strings.TrimSpace(res.Stdout); got != want {
		t.Errorf("Stdout = %q, want %q", got, want)
	}
}

func TestExecute_DefaultDomainFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ksctl.Path = "echo"
	cfg.Ksctl.Timeout = 10 * time.Second
	cfg.CipherTrust.Domain = "root"
	cli := New(cfg, nil)

	// Request scope wins over the configured default.
	res := cli.Execute(context.Background(), []string{"x"}, "hr", "")
	if got := strings.TrimSpace(res.Stdout); got != "x --domain hr" {
		t.Errorf("Stdout = %q", got)
	}

	res = cli.Execute(context.Background(), []string{"x"}, "", "")
	if got := strings.TrimSpace(res.Stdout); got != "x --domain root" {
		t.Errorf("Stdout = %q", got)
	}
}

func TestExecute_GlobalConnectionFlags(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ksctl.Path = "echo"
	cfg.Ksctl.Timeout = 10 * time.Second
	cfg.CipherTrust.URL = "https://cm.example.com"
	cfg.CipherTrust.NoSSLVerify = true
	cli := New(cfg, nil)

	res := cli.Execute(context.Background(), []string{"cluster", "info"}, "", "")
	want := "cluster info --url https://cm.example.com --nosslverify"
	if got := strings.TrimSpace(res.Stdout); got != want {
		t.Errorf("Stdout = %q, want %q", got, want)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "password value",
			in:   []string{"cte", "clients", "create", "--client-password", "hunter2"},
			want: []string{"cte", "clients", "create", "--client-password", "[REDACTED]"},
		},
		{
			name: "assignment form",
			in:   []string{"--password=hunter2"},
			want: []string{"--password=[REDACTED]"},
		},
		{
			name: "nothing sensitive",
			in:   []string{"cte", "policies", "list", "--limit", "10"},
			want: []string{"cte", "policies", "list", "--limit", "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Redact(%v) = %v, want %v", tt.in, got, tt.want)
			}
			// Input must stay untouched.
			if tt.name == "password value" && tt.in[4] != "hunter2" {
				t.Error("Redact mutated its input")
			}
		})
	}
}

func TestArgHelpers(t *testing.T) {
	p := params.Bag{
		"description":    "demo",
		"empty":          "",
		"cleared":        "",
		"on":             true,
		"off":            false,
		"user_json":      `{"name":"u"}`,
		"user_json_file": "/tmp/ignored.json",
	}

	tests := []struct {
		name  string
		build func() []string
		want  []string
	}{
		{
			name:  "opt present",
			build: func() []string { return Opt(nil, p, "description", "description") },
			want:  []string{"--description", "demo"},
		},
		{
			name:  "opt empty skipped",
			build: func() []string { return Opt(nil, p, "empty", "empty") },
			want:  nil,
		},
		{
			name:  "set keeps empty",
			build: func() []string { return Set(nil, p, "cleared", "description") },
			want:  []string{"--description", ""},
		},
		{
			name:  "switch truthy",
			build: func() []string { return Switch(nil, p, "on", "comm-enabled") },
			want:  []string{"--comm-enabled"},
		},
		{
			name:  "switch false skipped",
			build: func() []string { return Switch(nil, p, "off", "comm-enabled") },
			want:  nil,
		},
		{
			name:  "tri false",
			build: func() []string { return Tri(nil, p, "off", "never-deny") },
			want:  []string{"--no-never-deny"},
		},
		{
			name:  "tri unset",
			build: func() []string { return Tri(nil, p, "missing", "never-deny") },
			want:  nil,
		},
		{
			name:  "triassign false",
			build: func() []string { return TriAssign(nil, p, "off", "disabled") },
			want:  []string{"--disabled=false"},
		},
		{
			name:  "pair inline wins",
			build: func() []string { return Pair(nil, p, "user_json", "user-json") },
			want:  []string{"--user-json", `{"name":"u"}`},
		},
		{
			name: "pair falls back to file",
			build: func() []string {
				q := params.Bag{"user_json_file": "/tmp/u.json"}
				return Pair(nil, q, "user_json", "user-json")
			},
			want: []string{"--user-json-file", "/tmp/u.json"},
		},
		{
			name:  "page defaults",
			build: func() []string { return Page(nil, params.Bag{}) },
			want:  []string{"--limit", "10", "--skip", "0"},
		},
		{
			name:  "page explicit",
			build: func() []string { return Page(nil, params.Bag{"limit": float64(50), "skip": float64(5)}) },
			want:  []string{"--limit", "50", "--skip", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
