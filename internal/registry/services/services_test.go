package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

type stubInvoker struct {
	calls [][]string
}

func (s *stubInvoker) Execute(ctx context.Context, args []string, domain, authDomain string) *ksctl.Result {
	s.calls = append(s.calls, args)
	return &ksctl.Result{Success: true, Stdout: "services restarting"}
}

func newTestFacade(t *testing.T) (*dispatch.Facade, *stubInvoker) {
	t.Helper()
	inv := &stubInvoker{}
	f, err := New(inv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return f, inv
}

func TestArgv(t *testing.T) {
	tests := []struct {
		name string
		op   string
		bag  params.Bag
		want []string
	}{
		{
			name: "status of everything",
			op:   "status",
			bag:  params.Bag{"overall_status": true},
			want: []string{"services", "status", "--overall-status"},
		},
		{
			name: "status of one service",
			op:   "status",
			bag:  params.Bag{"service_names": "nae-kmip"},
			want: []string{"services", "status", "--service-names", "nae-kmip"},
		},
		{
			name: "overall status wins over service names",
			op:   "status",
			bag:  params.Bag{"overall_status": true, "service_names": "web"},
			want: []string{"services", "status", "--overall-status"},
		},
		{
			name: "restart defaults",
			op:   "restart",
			bag:  params.Bag{},
			want: []string{"services", "restart", "--yes", "--delay", "5"},
		},
		{
			name: "restart one service without confirmation",
			op:   "restart",
			bag:  params.Bag{"service_names": "web", "yes": false, "delay": float64(30)},
			want: []string{"services", "restart", "--service-names", "web", "--delay", "30"},
		},
		{
			name: "reset with default delay",
			op:   "reset",
			bag:  params.Bag{},
			want: []string{"services", "reset", "--delay", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, inv := newTestFacade(t)
			if _, err := f.Execute(context.Background(), tt.op, tt.bag); err != nil {
				t.Fatalf("Execute(%s) error = %v", tt.op, err)
			}
			if len(inv.calls) != 1 {
				t.Fatalf("recorded %d invocations, want 1", len(inv.calls))
			}
			if !reflect.DeepEqual(inv.calls[0], tt.want) {
				t.Errorf("argv = %q\nwant   %q", inv.calls[0], tt.want)
			}
		})
	}
}

func TestReset_CarriesWarning(t *testing.T) {
	f, _ := newTestFacade(t)

	res, err := f.Execute(context.Background(), "reset", params.Bag{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	out, ok := res.(map[string]any)
	if !ok {
		t.Fatalf("Execute() = %T, want map result", res)
	}
	warning, _ := out["warning"].(string)
	if !strings.Contains(warning, "WIPE ALL DATA") {
		t.Errorf("warning = %q, want the data-loss warning", warning)
	}
	if out["stdout"] != "services restarting" {
		t.Errorf("stdout = %v, want the relayed output", out["stdout"])
	}
}

func TestExamples_RoundTrip(t *testing.T) {
	f, _ := newTestFacade(t)

	for op, req := range f.Describe().Requirements {
		t.Run(op, func(t *testing.T) {
			if _, err := f.Execute(context.Background(), op, params.Bag(req.Example)); err != nil {
				t.Errorf("Execute() error = %v", err)
			}
		})
	}
}
